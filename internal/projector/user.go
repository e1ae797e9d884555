package projector

import (
	"errors"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

func (p *Projector) applyProfileCreated(ev *model.Event, payload *model.ProfileCreated) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.AccountID = payload.AccountID
	user.Email = payload.Email
	user.PhoneNumber = payload.PhoneNumber
	user.Username = payload.Username
	user.UsernameLowercase = common.ToLowerWithTrim(payload.Username)
	user.FullName = payload.FullName
	user.Photo = payload.Photo
	user.HasProfile = true
	// Original flags record whether the contact details are still the ones
	// the profile was created with.
	user.EmailIsOriginal = payload.Email != ""
	user.PhoneIsOriginal = payload.PhoneNumber != ""
	if payload.CreatedAt != 0 {
		user.CreatedAt = payload.CreatedAt
	}
	user.LastProfileUpdate = 0
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyProfileUpdated(ev *model.Event, payload *model.ProfileUpdated) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.FullName = payload.FullName
	user.Photo = payload.Photo
	user.LastProfileUpdate = ev.BlockTimestamp
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyContactInfoUpdated(ev *model.Event, payload *model.ContactInfoUpdated) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	if payload.Email != "" && payload.Email != user.Email {
		user.Email = payload.Email
		user.EmailIsOriginal = false
	}
	if payload.PhoneNumber != "" && payload.PhoneNumber != user.PhoneNumber {
		user.PhoneNumber = payload.PhoneNumber
		user.PhoneIsOriginal = false
	}
	user.LastProfileUpdate = ev.BlockTimestamp
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyPhotoUpdated(ev *model.Event, payload *model.PhotoUpdated) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.Photo = payload.Photo
	user.LastProfileUpdate = ev.BlockTimestamp
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

// getOrCreateUser loads the user aggregate, lazily creating a zeroed one when
// the address is seen for the first time. The new aggregate is not persisted
// here; the caller's upsert does that.
func (p *Projector) getOrCreateUser(ev *model.Event, addr ethcommon.Address) (*model.User, error) {
	user, err := p.store.GetUser(addr)
	if errors.Is(err, store.ErrNotFound) {
		user = model.NewUser(addr)
		user.CreatedAt = ev.BlockTimestamp
		return user, nil
	}
	return user, err
}

// touchUser ensures a user aggregate exists for the address, persisting a
// fresh zeroed one if needed.
func (p *Projector) touchUser(ev *model.Event, addr ethcommon.Address) error {
	_, err := p.store.GetUser(addr)
	if errors.Is(err, store.ErrNotFound) {
		user := model.NewUser(addr)
		user.CreatedAt = ev.BlockTimestamp
		user.UpdatedAt = ev.BlockTimestamp
		return p.store.UpsertUser(user)
	}
	return err
}
