package projector

import (
	"errors"
	"math/big"

	"github.com/DevBigEazi/circlepot-indexer/internal/identity"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
)

// withdrawWinBasisPoints is the strict supermajority threshold for the start
// side of an early-withdrawal vote, in basis points. The withdraw side wins
// whenever the start side fails to reach it.
const withdrawWinBasisPoints = 5100

func (p *Projector) applyCircleCreated(ev *model.Event, payload *model.CircleCreated) (Result, error) {
	circle := &model.Circle{
		CircleID:           payload.CircleID,
		Creator:            payload.Creator,
		Name:               payload.Name,
		Description:        payload.Description,
		ContributionAmount: bigOrZero(payload.ContributionAmount),
		CollateralAmount:   bigOrZero(payload.CollateralAmount),
		Frequency:          payload.Frequency,
		MaxMembers:         payload.MaxMembers,
		CurrentMembers:     1, // the creator is the first member
		CurrentRound:       0,
		State:              model.CircleStateCreated,
		IsPublic:           payload.IsPublic,
		TotalPot:           big.NewInt(0),
		LateFeePool:        big.NewInt(0),
		IsYieldEnabled:     payload.IsYieldEnabled,
		Token:              payload.Token,
		CreatedAt:          ev.BlockTimestamp,
		UpdatedAt:          ev.BlockTimestamp,
	}
	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyCircleJoined(ev *model.Event, payload *model.CircleJoined) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	// Member count and state come from the contract snapshot in the event,
	// not from a local increment, so one missed join does not skew the count
	// forever.
	members := payload.CurrentMembers
	if members > circle.MaxMembers {
		p.log.Warnf("circle %d reports %d members, capping at max %d",
			payload.CircleID, members, circle.MaxMembers)
		members = circle.MaxMembers
	}
	circle.CurrentMembers = members
	circle.State = payload.State
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyCircleStarted(ev *model.Event, payload *model.CircleStarted) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	circle.State = model.CircleStateActive
	circle.CurrentRound = 1
	circle.StartedAt = payload.StartedAt
	if circle.StartedAt == 0 {
		circle.StartedAt = ev.BlockTimestamp
	}
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyVotingInitiated(ev *model.Event, payload *model.VotingInitiated) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	circle.State = model.CircleStateVoting
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyVoteExecuted(ev *model.Event, payload *model.VoteExecuted) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	total := payload.StartVotes + payload.WithdrawVotes

	// Basis-points comparison, integer division intentional: the withdraw
	// side wins only when the start side falls strictly below 51.00%.
	// A vote with no ballots counts as a start win.
	withdrawWon := false
	if total > 0 {
		withdrawWon = payload.StartVotes*10000/total < withdrawWinBasisPoints
	}

	circle.VoteWithdrawWon = withdrawWon
	circle.LastVoteResult = identity.EventID(ev)
	// The circle resumes in Active either way; a withdraw win is followed by
	// per-member CollateralWithdrawn events that move it to Dead.
	circle.State = model.CircleStateActive
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

// applyContribution covers on-time and late contributions: both add the full
// contributed amount to the round pot. Late fees reach the fee pool through
// their own event.
func (p *Projector) applyContribution(ev *model.Event, circleID uint64, amount *big.Int) (Result, error) {
	circle, ok, err := p.loadCircle(circleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	if circle.State.Terminal() {
		p.log.Warnf("ignoring contribution to circle %d in terminal state %s", circleID, circle.State)
		return Applied, nil
	}

	circle.TotalPot = new(big.Int).Add(bigOrZero(circle.TotalPot), bigOrZero(amount))
	circle.ContributionsThisRound++
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyMemberForfeited(ev *model.Event, payload *model.MemberForfeited) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	if circle.State.Terminal() {
		p.log.Warnf("ignoring forfeit in circle %d in terminal state %s", payload.CircleID, circle.State)
		return Applied, nil
	}

	// The deduction can exceed one contribution (it includes penalties taken
	// from collateral); only the contribution-sized portion reaches the pot.
	credit := bigOrZero(payload.Deduction)
	if credit.Cmp(bigOrZero(circle.ContributionAmount)) > 0 {
		credit = circle.ContributionAmount
	}

	circle.TotalPot = new(big.Int).Add(bigOrZero(circle.TotalPot), credit)
	circle.ContributionsThisRound++
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyPayoutDistributed(ev *model.Event, payload *model.PayoutDistributed) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	if circle.State.Terminal() {
		p.log.Warnf("ignoring payout for circle %d in terminal state %s", payload.CircleID, circle.State)
		return Applied, nil
	}

	if payload.Round < circle.MaxMembers {
		circle.CurrentRound = payload.Round + 1
	} else {
		circle.CurrentRound = circle.MaxMembers
		circle.State = model.CircleStateCompleted
	}

	// Round rollover: the pot and the per-round contribution count start over.
	circle.TotalPot = big.NewInt(0)
	circle.ContributionsThisRound = 0
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyCollateralWithdrawn(ev *model.Event, payload *model.CollateralWithdrawn) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	// Collateral withdrawal only happens after a withdraw-side vote win; the
	// first member to withdraw marks the circle dead, the rest are no-ops on
	// the state.
	circle.State = model.CircleStateDead
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyVisibilityUpdated(ev *model.Event, payload *model.VisibilityUpdated) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	circle.IsPublic = payload.IsPublic
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyPointsAwarded(ev *model.Event, payload *model.PointsAwarded) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	circle.TotalPoints += payload.Points
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

func (p *Projector) applyLateFeeAddedToPool(ev *model.Event, payload *model.LateFeeAddedToPool) (Result, error) {
	circle, ok, err := p.loadCircle(payload.CircleID)
	if err != nil || !ok {
		return SkippedMissingAggregate, err
	}

	circle.LateFeePool = new(big.Int).Add(bigOrZero(circle.LateFeePool), bigOrZero(payload.Amount))
	circle.UpdatedAt = ev.BlockTimestamp

	return Applied, p.store.UpsertCircle(circle)
}

// loadCircle fetches the circle aggregate, reporting ok=false when it does
// not exist yet. Update-only handlers skip in that case instead of creating
// a partial aggregate.
func (p *Projector) loadCircle(circleID uint64) (*model.Circle, bool, error) {
	circle, err := p.store.GetCircle(circleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return circle, true, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
