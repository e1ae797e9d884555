package projector

import (
	"math/big"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// applyReputationChanged folds an increase or decrease into the user's running
// reputation total. The total is not clamped: a negative value means the
// decrease events outran the increases and is worth seeing, not hiding.
func (p *Projector) applyReputationChanged(ev *model.Event, addr ethcommon.Address, points *big.Int, negative bool) (Result, error) {
	user, err := p.getOrCreateUser(ev, addr)
	if err != nil {
		return 0, err
	}

	delta := bigOrZero(points)
	if negative {
		delta = new(big.Int).Neg(delta)
	}

	user.TotalReputation = new(big.Int).Add(bigOrZero(user.TotalReputation), delta)
	if user.TotalReputation.Sign() < 0 {
		p.log.Warnf("user %s reputation went negative (%s)", addr.Hex(), user.TotalReputation)
	}
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyScoreCategoryChanged(ev *model.Event, payload *model.ScoreCategoryChanged) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.RepCategory = payload.NewCategory
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyCircleCompleted(ev *model.Event, payload *model.CircleCompleted) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	// The event carries the contract's lifetime counter; take it as-is.
	user.TotalCirclesCompleted = payload.TotalCompleted
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}

func (p *Projector) applyGoalCompleted(ev *model.Event, payload *model.GoalCompleted) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.TotalGoalsCompleted = payload.TotalCompleted
	user.UpdatedAt = ev.BlockTimestamp

	if err := p.store.UpsertUser(user); err != nil {
		return 0, err
	}

	// Completion also closes the goal itself.
	return Applied, p.deactivateGoal(ev, payload.User, payload.GoalID)
}

func (p *Projector) applyLatePaymentRecorded(ev *model.Event, payload *model.LatePaymentRecorded) (Result, error) {
	user, err := p.getOrCreateUser(ev, payload.User)
	if err != nil {
		return 0, err
	}

	user.TotalLatePayments = payload.TotalLatePayments
	user.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertUser(user)
}
