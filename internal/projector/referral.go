package projector

import (
	"errors"
	"math/big"

	"github.com/DevBigEazi/circlepot-indexer/internal/identity"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

func (p *Projector) applyUserReferred(ev *model.Event, payload *model.UserReferred) (Result, error) {
	if err := p.touchUser(ev, payload.Referrer); err != nil {
		return 0, err
	}

	user, err := p.getOrCreateUser(ev, payload.NewUser)
	if err != nil {
		return 0, err
	}

	// First referrer wins; a second referral event for the same user is
	// recorded but does not rewrite the relationship.
	if user.ReferredBy == nil {
		referrer := payload.Referrer
		user.ReferredBy = &referrer
	} else if *user.ReferredBy != payload.Referrer {
		p.log.Warnf("user %s already referred by %s, ignoring referrer %s",
			payload.NewUser.Hex(), user.ReferredBy.Hex(), payload.Referrer.Hex())
	}
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyReferralRewardPending(ev *model.Event, payload *model.ReferralRewardPending) (Result, error) {
	referrer, err := p.getOrCreateUser(ev, payload.Referrer)
	if err != nil {
		return 0, err
	}
	referee, err := p.getOrCreateUser(ev, payload.Referee)
	if err != nil {
		return 0, err
	}

	referrer.PendingRewardsEarned = new(big.Int).Add(
		bigOrZero(referrer.PendingRewardsEarned), bigOrZero(payload.Amount))

	// Count each referee once across the pending/paid pair. A replayed or
	// duplicate pending for the same referee adds to the pending amount but
	// never double-counts the referral.
	if !referee.IsReferralProcessed {
		referrer.ReferralCount++
		referee.IsReferralProcessed = true
	}

	referrer.UpdatedAt = ev.BlockTimestamp
	referee.UpdatedAt = ev.BlockTimestamp

	if err := p.store.UpsertUser(referrer); err != nil {
		return 0, err
	}
	return Applied, p.store.UpsertUser(referee)
}

func (p *Projector) applyReferralRewardPaid(ev *model.Event, payload *model.ReferralRewardPaid) (Result, error) {
	referrer, err := p.getOrCreateUser(ev, payload.Referrer)
	if err != nil {
		return 0, err
	}
	referee, err := p.getOrCreateUser(ev, payload.Referee)
	if err != nil {
		return 0, err
	}

	referrer.TotalReferralRewardsEarned = new(big.Int).Add(
		bigOrZero(referrer.TotalReferralRewardsEarned), bigOrZero(payload.Amount))

	pending := new(big.Int).Sub(bigOrZero(referrer.PendingRewardsEarned), bigOrZero(payload.Amount))
	if pending.Sign() < 0 {
		pending.SetInt64(0)
	}
	referrer.PendingRewardsEarned = pending

	// A paid without a preceding pending still consumes the referee's one
	// referral credit.
	if !referee.IsReferralProcessed {
		referrer.ReferralCount++
		referee.IsReferralProcessed = true
	}
	referee.IsReferralPaid = true

	referrer.UpdatedAt = ev.BlockTimestamp
	referee.UpdatedAt = ev.BlockTimestamp

	if err := p.store.UpsertUser(referrer); err != nil {
		return 0, err
	}
	if err := p.store.UpsertUser(referee); err != nil {
		return 0, err
	}

	// The per-token cumulative paid total grows by every payout.
	settings, err := p.getOrCreateTokenSettings(payload.Token)
	if err != nil {
		return 0, err
	}
	settings.TotalRewardsPaid = new(big.Int).Add(
		bigOrZero(settings.TotalRewardsPaid), bigOrZero(payload.Amount))

	return Applied, p.store.UpsertTokenSettings(settings)
}

func (p *Projector) applyReferralRewardsToggled(payload *model.ReferralRewardsToggled) (Result, error) {
	system, err := p.getOrCreateReferralSystem()
	if err != nil {
		return 0, err
	}
	system.RewardsEnabled = payload.Enabled
	return Applied, p.store.UpsertReferralSystem(system)
}

func (p *Projector) applyReferralBonusUpdated(payload *model.ReferralBonusUpdated) (Result, error) {
	settings, err := p.getOrCreateTokenSettings(payload.Token)
	if err != nil {
		return 0, err
	}
	settings.BonusAmount = bigOrZero(payload.NewAmount)
	return Applied, p.store.UpsertTokenSettings(settings)
}

func (p *Projector) applyCampaignStarted(payload *model.CampaignStarted) (Result, error) {
	system, err := p.getOrCreateReferralSystem()
	if err != nil {
		return 0, err
	}
	system.CampaignMode = true
	system.CampaignStartTime = payload.StartTime
	system.CampaignEndTime = payload.EndTime
	return Applied, p.store.UpsertReferralSystem(system)
}

func (p *Projector) applyCampaignBonusUpdated(payload *model.CampaignBonusUpdated) (Result, error) {
	settings, err := p.getOrCreateTokenSettings(payload.Token)
	if err != nil {
		return 0, err
	}
	settings.CampaignBonusAmount = bigOrZero(payload.BonusAmount)
	return Applied, p.store.UpsertTokenSettings(settings)
}

func (p *Projector) applyCampaignEnded() (Result, error) {
	system, err := p.getOrCreateReferralSystem()
	if err != nil {
		return 0, err
	}
	system.CampaignMode = false
	return Applied, p.store.UpsertReferralSystem(system)
}

func (p *Projector) applyRewardFundsDeposited(payload *model.RewardFundsDeposited) (Result, error) {
	settings, err := p.getOrCreateTokenSettings(payload.Token)
	if err != nil {
		return 0, err
	}
	settings.TotalRewardsFunded = new(big.Int).Add(
		bigOrZero(settings.TotalRewardsFunded), bigOrZero(payload.Amount))
	return Applied, p.store.UpsertTokenSettings(settings)
}

func (p *Projector) applyReferralTokenAdded(payload *model.ReferralTokenAdded) (Result, error) {
	settings, err := p.getOrCreateTokenSettings(payload.Token)
	if err != nil {
		return 0, err
	}
	return Applied, p.store.UpsertTokenSettings(settings)
}

// applyReferralTokenRemoved performs the model's single deletion: dropping a
// token from the program erases its settings record entirely.
func (p *Projector) applyReferralTokenRemoved(payload *model.ReferralTokenRemoved) (Result, error) {
	err := p.store.DeleteTokenSettings(payload.Token)
	if errors.Is(err, store.ErrNotFound) {
		return SkippedMissingAggregate, nil
	}
	if err != nil {
		return 0, err
	}
	return Applied, nil
}

func (p *Projector) applyPersonalSavingsContractUpdated(payload *model.PersonalSavingsContractUpdated) (Result, error) {
	system, err := p.getOrCreateReferralSystem()
	if err != nil {
		return 0, err
	}
	system.PersonalSavingsContract = payload.NewContract
	return Applied, p.store.UpsertReferralSystem(system)
}

func (p *Projector) getOrCreateReferralSystem() (*model.ReferralSystem, error) {
	system, err := p.store.GetReferralSystem()
	if errors.Is(err, store.ErrNotFound) {
		return &model.ReferralSystem{Key: identity.ReferralSystemKey}, nil
	}
	return system, err
}

func (p *Projector) getOrCreateTokenSettings(token ethcommon.Address) (*model.ReferralTokenSettings, error) {
	settings, err := p.store.GetTokenSettings(token)
	if errors.Is(err, store.ErrNotFound) {
		return model.NewReferralTokenSettings(token), nil
	}
	return settings, err
}
