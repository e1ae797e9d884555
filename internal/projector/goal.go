package projector

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/chainstate"
	"github.com/DevBigEazi/circlepot-indexer/internal/identity"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const chainReadTimeout = 5 * time.Second

func (p *Projector) applyGoalCreated(ev *model.Event, payload *model.GoalCreated) (Result, error) {
	// Goal activity also establishes the owner as a user.
	if err := p.touchUser(ev, payload.Owner); err != nil {
		return 0, err
	}

	goal := &model.PersonalGoal{
		Key:           identity.GoalKey(payload.Owner, payload.GoalID),
		Owner:         payload.Owner,
		GoalID:        payload.GoalID,
		Name:          payload.Name,
		TargetAmount:  bigOrZero(payload.TargetAmount),
		CurrentAmount: bigOrZero(payload.CurrentAmount),
		Frequency:     payload.Frequency,
		Deadline:      payload.Deadline,
		IsActive:      payload.IsActive,
		Token:         payload.Token,
		CreatedAt:     ev.BlockTimestamp,
		UpdatedAt:     ev.BlockTimestamp,
	}

	// The creation event does not carry the yield flag; read it from the
	// contract when possible, default to disabled otherwise.
	if state := p.fetchGoalState(payload.GoalID); state != nil {
		goal.IsYieldEnabled = state.IsYieldEnabled
	}

	return Applied, p.store.UpsertGoal(goal)
}

func (p *Projector) applyGoalContribution(ev *model.Event, payload *model.GoalContribution) (Result, error) {
	goal, ok, err := p.loadGoal(payload.Owner, payload.GoalID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	// Prefer the contract's running total carried in the event over a local
	// add, so a missed event does not skew the balance forever.
	if payload.CurrentAmount != nil {
		goal.CurrentAmount = payload.CurrentAmount
	} else {
		goal.CurrentAmount = new(big.Int).Add(bigOrZero(goal.CurrentAmount), bigOrZero(payload.Amount))
	}
	goal.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertGoal(goal)
}

func (p *Projector) applyGoalWithdrawn(ev *model.Event, payload *model.GoalWithdrawn) (Result, error) {
	goal, ok, err := p.loadGoal(payload.Owner, payload.GoalID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	if state := p.fetchGoalState(payload.GoalID); state != nil {
		goal.CurrentAmount = bigOrZero(state.CurrentAmount)
	} else {
		// Fallback: subtract the withdrawn amount locally, floored at zero.
		remaining := new(big.Int).Sub(bigOrZero(goal.CurrentAmount), bigOrZero(payload.Amount))
		if remaining.Sign() < 0 {
			remaining.SetInt64(0)
		}
		goal.CurrentAmount = remaining
	}

	// A withdrawal always closes the goal; isActive never reverts to true.
	goal.IsActive = false
	goal.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertGoal(goal)
}

// deactivateGoal marks a goal inactive when its completion is reported by the
// reputation contract. Missing goals are tolerated here because the completion
// event is user-keyed, not goal-keyed.
func (p *Projector) deactivateGoal(ev *model.Event, owner ethcommon.Address, goalID uint64) error {
	goal, ok, err := p.loadGoal(owner, goalID)
	if err != nil || !ok {
		return err
	}

	goal.IsActive = false
	goal.UpdatedAt = ev.BlockTimestamp

	return p.store.UpsertGoal(goal)
}

func (p *Projector) loadGoal(owner ethcommon.Address, goalID uint64) (*model.PersonalGoal, bool, error) {
	goal, err := p.store.GetGoal(identity.GoalKey(owner, goalID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return goal, true, nil
}

// fetchGoalState reads live contract state, returning nil when unavailable.
func (p *Projector) fetchGoalState(goalID uint64) *chainstate.GoalState {
	ctx, cancel := context.WithTimeout(context.Background(), chainReadTimeout)
	defer cancel()

	state, err := p.chain.GoalState(ctx, goalID)
	if err != nil {
		if !errors.Is(err, chainstate.ErrUnavailable) {
			p.log.Warnf("goal %d state read failed: %v", goalID, err)
		}
		StateFetchFallbackInc()
		return nil
	}
	return state
}
