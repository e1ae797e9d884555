package projector

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/DevBigEazi/circlepot-indexer/internal/chainstate"
	"github.com/DevBigEazi/circlepot-indexer/internal/identity"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	alice = ethcommon.BytesToAddress([]byte{0xa1})
	bob   = ethcommon.BytesToAddress([]byte{0xb2})
	carol = ethcommon.BytesToAddress([]byte{0xc3})
	usdc  = ethcommon.BytesToAddress([]byte{0xee})
)

type testHarness struct {
	projector *Projector
	store     *store.MemoryStore

	seq uint64
}

func newHarness(t *testing.T, chain chainstate.Reader) *testHarness {
	t.Helper()
	st := store.NewMemoryStore()
	return &testHarness{
		projector: New(st, chain, logger.NewNopLogger()),
		store:     st,
	}
}

// event wraps a payload with fresh provenance: every call gets its own
// transaction hash and advancing block number.
func (h *testHarness) event(payload model.Payload) *model.Event {
	h.seq++
	return &model.Event{
		Payload:        payload,
		TxHash:         ethcommon.BytesToHash([]byte(fmt.Sprintf("tx-%d", h.seq))),
		BlockNumber:    100 + h.seq,
		BlockTimestamp: 1_700_000_000 + h.seq,
		LogIndex:       0,
	}
}

func (h *testHarness) apply(t *testing.T, payload model.Payload) Result {
	t.Helper()
	result, err := h.projector.Apply(h.event(payload))
	require.NoError(t, err)
	return result
}

func (h *testHarness) createCircle(t *testing.T, circleID, maxMembers uint64, contribution int64) {
	t.Helper()
	result := h.apply(t, &model.CircleCreated{
		CircleID:           circleID,
		Creator:            alice,
		Name:               "rainy day fund",
		ContributionAmount: big.NewInt(contribution),
		CollateralAmount:   big.NewInt(contribution * 2),
		Frequency:          7,
		MaxMembers:         maxMembers,
		IsPublic:           true,
		Token:              usdc,
	})
	require.Equal(t, Applied, result)
}

func (h *testHarness) getCircle(t *testing.T, circleID uint64) *model.Circle {
	t.Helper()
	circle, err := h.store.GetCircle(circleID)
	require.NoError(t, err)
	return circle
}

func (h *testHarness) getUser(t *testing.T, addr ethcommon.Address) *model.User {
	t.Helper()
	user, err := h.store.GetUser(addr)
	require.NoError(t, err)
	return user
}

func TestCircleCreated(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)

	circle := h.getCircle(t, 1)
	require.Equal(t, model.CircleStateCreated, circle.State)
	require.Equal(t, uint64(1), circle.CurrentMembers)
	require.Equal(t, uint64(0), circle.CurrentRound)
	require.Equal(t, int64(0), circle.TotalPot.Int64())
	require.Equal(t, alice, circle.Creator)
	require.NotZero(t, circle.CreatedAt)
}

func TestCircleJoinedUsesSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)

	// The snapshot in the event is authoritative even if local counting
	// would disagree (e.g. after a missed join).
	result := h.apply(t, &model.CircleJoined{
		CircleID: 1, Member: carol, CurrentMembers: 3, State: model.CircleStateCreated,
	})
	require.Equal(t, Applied, result)
	require.Equal(t, uint64(3), h.getCircle(t, 1).CurrentMembers)
}

func TestCircleJoinedCapsAtMaxMembers(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)

	h.apply(t, &model.CircleJoined{
		CircleID: 1, Member: bob, CurrentMembers: 5, State: model.CircleStateCreated,
	})
	require.Equal(t, uint64(3), h.getCircle(t, 1).CurrentMembers)
}

func TestCircleStarted(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)

	h.apply(t, &model.CircleStarted{CircleID: 1, StartedAt: 1_700_000_500})

	circle := h.getCircle(t, 1)
	require.Equal(t, model.CircleStateActive, circle.State)
	require.Equal(t, uint64(1), circle.CurrentRound)
	require.Equal(t, uint64(1_700_000_500), circle.StartedAt)
}

func TestContributionsAccumulateInPot(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})

	h.apply(t, &model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})
	h.apply(t, &model.LateContributionMade{CircleID: 1, Member: bob, Amount: big.NewInt(100), Fee: big.NewInt(5), Round: 1})

	circle := h.getCircle(t, 1)
	require.Equal(t, int64(200), circle.TotalPot.Int64())
	require.Equal(t, uint64(2), circle.ContributionsThisRound)
	// The late fee reaches the pool only through its own event.
	require.Equal(t, int64(0), circle.LateFeePool.Int64())

	h.apply(t, &model.LateFeeAddedToPool{CircleID: 1, Amount: big.NewInt(5), Round: 1})
	require.Equal(t, int64(5), h.getCircle(t, 1).LateFeePool.Int64())
}

// Two equal contributions under distinct event identities both count. The
// projector does not deduplicate payload content, only event identity.
func TestEqualContributionsAreNotDeduplicated(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})

	h.apply(t, &model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})
	h.apply(t, &model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})

	circle := h.getCircle(t, 1)
	require.Equal(t, int64(200), circle.TotalPot.Int64())
	require.Equal(t, uint64(2), circle.ContributionsThisRound)
}

func TestPayoutRollsOverRound(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})
	h.apply(t, &model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})

	h.apply(t, &model.PayoutDistributed{CircleID: 1, Recipient: alice, Amount: big.NewInt(100), Round: 1})

	circle := h.getCircle(t, 1)
	require.Equal(t, uint64(2), circle.CurrentRound)
	require.Equal(t, model.CircleStateActive, circle.State)
	require.Equal(t, int64(0), circle.TotalPot.Int64())
	require.Equal(t, uint64(0), circle.ContributionsThisRound)
}

func TestFinalPayoutCompletesCircle(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})

	for round := uint64(1); round <= 3; round++ {
		h.apply(t, &model.PayoutDistributed{CircleID: 1, Recipient: alice, Amount: big.NewInt(100), Round: round})
	}

	circle := h.getCircle(t, 1)
	require.Equal(t, model.CircleStateCompleted, circle.State)
	// The round counter never exceeds the member count.
	require.Equal(t, uint64(3), circle.CurrentRound)
}

func TestTerminalCircleAbsorbsContributionsAndPayouts(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 2, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})
	h.apply(t, &model.PayoutDistributed{CircleID: 1, Recipient: alice, Amount: big.NewInt(100), Round: 2})
	require.Equal(t, model.CircleStateCompleted, h.getCircle(t, 1).State)

	result := h.apply(t, &model.ContributionMade{CircleID: 1, Member: bob, Amount: big.NewInt(100), Round: 2})
	require.Equal(t, Applied, result)

	circle := h.getCircle(t, 1)
	require.Equal(t, int64(0), circle.TotalPot.Int64())
	require.Equal(t, model.CircleStateCompleted, circle.State)
}

func TestVoteExecutedThreshold(t *testing.T) {
	cases := []struct {
		name        string
		startVotes  uint64
		withdraw    uint64
		withdrawWon bool
	}{
		{"exactly at threshold", 51, 49, false},
		{"just below threshold", 5099, 4901, true},
		{"clear start win", 90, 10, false},
		{"clear withdraw win", 10, 90, true},
		{"no ballots", 0, 0, false},
		{"even split", 50, 50, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.createCircle(t, 1, 3, 100)
			h.apply(t, &model.CircleStarted{CircleID: 1})
			h.apply(t, &model.VotingInitiated{CircleID: 1, InitiatedBy: alice})
			require.Equal(t, model.CircleStateVoting, h.getCircle(t, 1).State)

			h.apply(t, &model.VoteExecuted{CircleID: 1, StartVotes: tc.startVotes, WithdrawVotes: tc.withdraw})

			circle := h.getCircle(t, 1)
			require.Equal(t, tc.withdrawWon, circle.VoteWithdrawWon)
			require.Equal(t, model.CircleStateActive, circle.State)
			require.NotEmpty(t, circle.LastVoteResult)
		})
	}
}

func TestCollateralWithdrawnMarksCircleDead(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})
	h.apply(t, &model.VotingInitiated{CircleID: 1, InitiatedBy: alice})
	h.apply(t, &model.VoteExecuted{CircleID: 1, StartVotes: 1, WithdrawVotes: 2})

	h.apply(t, &model.CollateralWithdrawn{CircleID: 1, Member: alice, Amount: big.NewInt(200)})
	require.Equal(t, model.CircleStateDead, h.getCircle(t, 1).State)

	// Remaining members withdrawing is a no-op on the state.
	h.apply(t, &model.CollateralWithdrawn{CircleID: 1, Member: bob, Amount: big.NewInt(200)})
	require.Equal(t, model.CircleStateDead, h.getCircle(t, 1).State)
}

func TestMemberForfeitedCreditsAtMostOneContribution(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})

	// Deduction includes a penalty taken from collateral; the pot is only
	// owed the contribution itself.
	h.apply(t, &model.MemberForfeited{CircleID: 1, Member: bob, Deduction: big.NewInt(150), Round: 1})
	circle := h.getCircle(t, 1)
	require.Equal(t, int64(100), circle.TotalPot.Int64())
	require.Equal(t, uint64(1), circle.ContributionsThisRound)

	// A deduction below the contribution is credited in full.
	h.apply(t, &model.MemberForfeited{CircleID: 1, Member: carol, Deduction: big.NewInt(40), Round: 1})
	require.Equal(t, int64(140), h.getCircle(t, 1).TotalPot.Int64())
}

func TestUpdateToMissingCircleIsSkippedButRecorded(t *testing.T) {
	h := newHarness(t, nil)

	result := h.apply(t, &model.ContributionMade{CircleID: 9, Member: alice, Amount: big.NewInt(100), Round: 1})
	require.Equal(t, SkippedMissingAggregate, result)

	_, err := h.store.GetCircle(9)
	require.ErrorIs(t, err, store.ErrNotFound)
	// The immutable record is still appended; only the fold was skipped.
	require.Equal(t, 1, h.store.EventCount())
}

// The feed redelivers a whole chunk when it crashed between applying the
// logs and advancing its checkpoint. Applying the same event again must not
// refold it into the aggregate, and must not fail the batch.
func TestRedeliveredEventIsSkippedNotRefolded(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleStarted{CircleID: 1})

	ev := h.event(&model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})
	result, err := h.projector.Apply(ev)
	require.NoError(t, err)
	require.Equal(t, Applied, result)

	result, err = h.projector.Apply(ev)
	require.NoError(t, err)
	require.Equal(t, SkippedDuplicate, result)

	circle := h.getCircle(t, 1)
	require.Equal(t, int64(100), circle.TotalPot.Int64())
	require.Equal(t, uint64(1), circle.ContributionsThisRound)
	require.Equal(t, 3, h.store.EventCount())
}

// Two different events deriving the same identity is an identity-derivation
// bug, not a redelivery, and must stay fatal.
func TestConflictingEventUnderSameIdentityIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)

	ev := h.event(&model.VisibilityUpdated{CircleID: 1, IsPublic: false})
	_, err := h.projector.Apply(ev)
	require.NoError(t, err)

	conflicting := &model.Event{
		Payload:        &model.VisibilityUpdated{CircleID: 1, IsPublic: true},
		TxHash:         ev.TxHash,
		BlockNumber:    ev.BlockNumber,
		BlockTimestamp: ev.BlockTimestamp,
		LogIndex:       ev.LogIndex,
	}
	_, err = h.projector.Apply(conflicting)
	require.ErrorIs(t, err, store.ErrDuplicateEvent)

	// The first record and its fold survive untouched.
	require.False(t, h.getCircle(t, 1).IsPublic)
	require.Equal(t, 2, h.store.EventCount())
}

func TestRecordOnlyEventsLeaveAggregatesAlone(t *testing.T) {
	h := newHarness(t, nil)
	h.createCircle(t, 1, 3, 100)
	before := h.getCircle(t, 1)

	h.apply(t, &model.VoteCast{CircleID: 1, Voter: bob, VoteToStart: true})
	h.apply(t, &model.MemberInvited{CircleID: 1, Inviter: alice, Invitee: bob})

	after := h.getCircle(t, 1)
	require.Equal(t, before.UpdatedAt, after.UpdatedAt)
	require.Equal(t, 3, h.store.EventCount())
}

func TestGoalLifecycle(t *testing.T) {
	chain := &chainstate.StaticReader{Goals: map[uint64]*chainstate.GoalState{
		7: {CurrentAmount: big.NewInt(0), IsActive: true, IsYieldEnabled: true},
	}}
	h := newHarness(t, chain)

	h.apply(t, &model.GoalCreated{
		Owner: alice, GoalID: 7, Name: "laptop",
		TargetAmount: big.NewInt(1000), CurrentAmount: big.NewInt(0),
		Frequency: 7, Deadline: 1_800_000_000, IsActive: true, Token: usdc,
	})

	goal, err := h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.True(t, goal.IsActive)
	// The yield flag is not in the event; it comes from the contract read.
	require.True(t, goal.IsYieldEnabled)

	// Creating a goal also establishes the owner as a user.
	h.getUser(t, alice)

	// The contract's running total in the event wins over a local add.
	h.apply(t, &model.GoalContribution{
		Owner: alice, GoalID: 7, Amount: big.NewInt(200), CurrentAmount: big.NewInt(250), Token: usdc,
	})
	goal, err = h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.Equal(t, int64(250), goal.CurrentAmount.Int64())
}

func TestGoalWithdrawnClosesGoal(t *testing.T) {
	chain := &chainstate.StaticReader{Goals: map[uint64]*chainstate.GoalState{
		7: {CurrentAmount: big.NewInt(30), IsActive: false, IsYieldEnabled: false},
	}}
	h := newHarness(t, chain)
	h.apply(t, &model.GoalCreated{
		Owner: alice, GoalID: 7, TargetAmount: big.NewInt(1000),
		CurrentAmount: big.NewInt(250), IsActive: true, Token: usdc,
	})

	h.apply(t, &model.GoalWithdrawn{
		Owner: alice, GoalID: 7, Amount: big.NewInt(220), Penalty: big.NewInt(10), Token: usdc,
	})

	goal, err := h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.False(t, goal.IsActive)
	require.Equal(t, int64(30), goal.CurrentAmount.Int64())

	// A contribution observed after the withdrawal updates the balance but
	// never resurrects the goal.
	h.apply(t, &model.GoalContribution{
		Owner: alice, GoalID: 7, Amount: big.NewInt(50), CurrentAmount: big.NewInt(80), Token: usdc,
	})
	goal, err = h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.False(t, goal.IsActive)
	require.Equal(t, int64(80), goal.CurrentAmount.Int64())
}

func TestGoalWithdrawnFallbackFloorsAtZero(t *testing.T) {
	h := newHarness(t, nil) // no contract reads available
	h.apply(t, &model.GoalCreated{
		Owner: alice, GoalID: 7, TargetAmount: big.NewInt(1000),
		CurrentAmount: big.NewInt(100), IsActive: true, Token: usdc,
	})

	h.apply(t, &model.GoalWithdrawn{
		Owner: alice, GoalID: 7, Amount: big.NewInt(150), Penalty: big.NewInt(0), Token: usdc,
	})

	goal, err := h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.Equal(t, int64(0), goal.CurrentAmount.Int64())
	require.False(t, goal.IsActive)
}

func TestGoalEventForUnknownGoalIsSkipped(t *testing.T) {
	h := newHarness(t, nil)

	result := h.apply(t, &model.GoalContribution{
		Owner: alice, GoalID: 99, Amount: big.NewInt(10), CurrentAmount: big.NewInt(10), Token: usdc,
	})
	require.Equal(t, SkippedMissingAggregate, result)
}

func TestReputationRunningSum(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ReputationIncreased{User: alice, Points: big.NewInt(30), Reason: "circle_completed"})
	h.apply(t, &model.ReputationIncreased{User: alice, Points: big.NewInt(20), Reason: "goal_completed"})
	h.apply(t, &model.ReputationDecreased{User: alice, Points: big.NewInt(10), Reason: "late_payment"})
	require.Equal(t, int64(40), h.getUser(t, alice).TotalReputation.Int64())

	// The total is a faithful sum, not clamped at zero.
	h.apply(t, &model.ReputationDecreased{User: alice, Points: big.NewInt(100), Reason: "forfeit"})
	require.Equal(t, int64(-60), h.getUser(t, alice).TotalReputation.Int64())
}

func TestReputationCountersAreAuthoritative(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.CircleCompleted{User: alice, CircleID: 3, TotalCompleted: 5})
	h.apply(t, &model.LatePaymentRecorded{User: alice, CircleID: 3, Round: 2, Fee: big.NewInt(5), TotalLatePayments: 2})
	h.apply(t, &model.ScoreCategoryChanged{User: alice, OldCategory: 0, NewCategory: 2})

	user := h.getUser(t, alice)
	require.Equal(t, uint64(5), user.TotalCirclesCompleted)
	require.Equal(t, uint64(2), user.TotalLatePayments)
	require.Equal(t, uint8(2), user.RepCategory)
}

func TestGoalCompletedClosesGoalAggregate(t *testing.T) {
	h := newHarness(t, nil)
	h.apply(t, &model.GoalCreated{
		Owner: alice, GoalID: 7, TargetAmount: big.NewInt(100),
		CurrentAmount: big.NewInt(100), IsActive: true, Token: usdc,
	})

	h.apply(t, &model.GoalCompleted{User: alice, GoalID: 7, TotalCompleted: 1})

	require.Equal(t, uint64(1), h.getUser(t, alice).TotalGoalsCompleted)
	goal, err := h.store.GetGoal(goalKey(alice, 7))
	require.NoError(t, err)
	require.False(t, goal.IsActive)
}

func TestProfileCreatedSetsOriginalFlags(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ProfileCreated{
		User: alice, AccountID: 42, Email: "a@example.com", PhoneNumber: "",
		Username: "Alice", FullName: "Alice A", CreatedAt: 1_700_000_001,
	})

	user := h.getUser(t, alice)
	require.True(t, user.HasProfile)
	require.Equal(t, "alice", user.UsernameLowercase)
	require.True(t, user.EmailIsOriginal)
	require.False(t, user.PhoneIsOriginal)
	require.Equal(t, uint64(1_700_000_001), user.CreatedAt)
}

func TestContactInfoUpdateClearsOriginalFlag(t *testing.T) {
	h := newHarness(t, nil)
	h.apply(t, &model.ProfileCreated{
		User: alice, Email: "a@example.com", PhoneNumber: "+123", Username: "alice",
	})

	h.apply(t, &model.ContactInfoUpdated{User: alice, Email: "new@example.com", PhoneNumber: "+123"})

	user := h.getUser(t, alice)
	require.Equal(t, "new@example.com", user.Email)
	require.False(t, user.EmailIsOriginal)
	// Unchanged phone keeps its original flag.
	require.True(t, user.PhoneIsOriginal)
	require.NotZero(t, user.LastProfileUpdate)
}

func TestUserReferredFirstReferrerWins(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.UserReferred{NewUser: alice, Referrer: bob})
	h.apply(t, &model.UserReferred{NewUser: alice, Referrer: carol})

	user := h.getUser(t, alice)
	require.NotNil(t, user.ReferredBy)
	require.Equal(t, bob, *user.ReferredBy)
}

func TestReferralPendingPaidCountsRefereeOnce(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ReferralRewardPending{Referrer: bob, Referee: alice, Token: usdc, Amount: big.NewInt(10)})

	referrer := h.getUser(t, bob)
	require.Equal(t, uint64(1), referrer.ReferralCount)
	require.Equal(t, int64(10), referrer.PendingRewardsEarned.Int64())
	require.True(t, h.getUser(t, alice).IsReferralProcessed)

	// A second pending for the same referee adds to the pending amount but
	// never double-counts the referral.
	h.apply(t, &model.ReferralRewardPending{Referrer: bob, Referee: alice, Token: usdc, Amount: big.NewInt(10)})
	referrer = h.getUser(t, bob)
	require.Equal(t, uint64(1), referrer.ReferralCount)
	require.Equal(t, int64(20), referrer.PendingRewardsEarned.Int64())

	h.apply(t, &model.ReferralRewardPaid{Referrer: bob, Referee: alice, Token: usdc, Amount: big.NewInt(20)})
	referrer = h.getUser(t, bob)
	require.Equal(t, uint64(1), referrer.ReferralCount)
	require.Equal(t, int64(20), referrer.TotalReferralRewardsEarned.Int64())
	require.Equal(t, int64(0), referrer.PendingRewardsEarned.Int64())
	require.True(t, h.getUser(t, alice).IsReferralPaid)

	settings, err := h.store.GetTokenSettings(usdc)
	require.NoError(t, err)
	require.Equal(t, int64(20), settings.TotalRewardsPaid.Int64())
}

func TestReferralPaidWithoutPendingStillCounts(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ReferralRewardPaid{Referrer: bob, Referee: alice, Token: usdc, Amount: big.NewInt(15)})

	referrer := h.getUser(t, bob)
	require.Equal(t, uint64(1), referrer.ReferralCount)
	require.Equal(t, int64(15), referrer.TotalReferralRewardsEarned.Int64())
	// Pending never goes negative.
	require.Equal(t, int64(0), referrer.PendingRewardsEarned.Int64())
}

func TestReferralSystemSettings(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ReferralRewardsToggled{Enabled: true})
	h.apply(t, &model.CampaignStarted{StartTime: 10, EndTime: 20})
	h.apply(t, &model.PersonalSavingsContractUpdated{NewContract: carol})

	system, err := h.store.GetReferralSystem()
	require.NoError(t, err)
	require.True(t, system.RewardsEnabled)
	require.True(t, system.CampaignMode)
	require.Equal(t, uint64(10), system.CampaignStartTime)
	require.Equal(t, uint64(20), system.CampaignEndTime)
	require.Equal(t, carol, system.PersonalSavingsContract)

	h.apply(t, &model.CampaignEnded{})
	system, err = h.store.GetReferralSystem()
	require.NoError(t, err)
	require.False(t, system.CampaignMode)
	// Historical campaign window is kept after the campaign ends.
	require.Equal(t, uint64(20), system.CampaignEndTime)
}

func TestReferralTokenSettingsLifecycle(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.ReferralTokenAdded{Token: usdc})
	h.apply(t, &model.ReferralBonusUpdated{Token: usdc, NewAmount: big.NewInt(5)})
	h.apply(t, &model.CampaignBonusUpdated{Token: usdc, BonusAmount: big.NewInt(9)})
	h.apply(t, &model.RewardFundsDeposited{From: alice, Token: usdc, Amount: big.NewInt(1000)})

	settings, err := h.store.GetTokenSettings(usdc)
	require.NoError(t, err)
	require.Equal(t, int64(5), settings.BonusAmount.Int64())
	require.Equal(t, int64(9), settings.CampaignBonusAmount.Int64())
	require.Equal(t, int64(1000), settings.TotalRewardsFunded.Int64())

	h.apply(t, &model.ReferralTokenRemoved{Token: usdc})
	_, err = h.store.GetTokenSettings(usdc)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenRemovedWithoutSettingsIsSkippedButRecorded(t *testing.T) {
	h := newHarness(t, nil)

	result := h.apply(t, &model.ReferralTokenRemoved{Token: usdc})
	require.Equal(t, SkippedMissingAggregate, result)
	require.Equal(t, 1, h.store.EventCount())
}

// Contract administration events only leave an immutable record; no
// aggregate is created or touched.
func TestAdminEventsAreRecordOnly(t *testing.T) {
	h := newHarness(t, nil)

	h.apply(t, &model.Initialized{Version: 1})
	h.apply(t, &model.OwnershipTransferred{PreviousOwner: alice, NewOwner: bob})
	h.apply(t, &model.Upgraded{Implementation: carol})
	h.apply(t, &model.ContractAuthorized{Contract: carol})
	h.apply(t, &model.ContractRevoked{Contract: carol})
	h.apply(t, &model.ContractUpgraded{NewImplementation: carol, Version: 2})
	h.apply(t, &model.VaultUpdated{Token: usdc, NewVault: carol})
	h.apply(t, &model.SavingsTokenAdded{Token: usdc})
	h.apply(t, &model.SavingsTokenRemoved{Token: usdc})

	require.Equal(t, 9, h.store.EventCount())
	_, err := h.store.GetReferralSystem()
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = h.store.GetTokenSettings(usdc)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestReplayRebuildsAggregates(t *testing.T) {
	h := newHarness(t, nil)

	h.createCircle(t, 1, 3, 100)
	h.apply(t, &model.CircleJoined{CircleID: 1, Member: bob, CurrentMembers: 2, State: model.CircleStateCreated})
	h.apply(t, &model.CircleStarted{CircleID: 1})
	h.apply(t, &model.ContributionMade{CircleID: 1, Member: alice, Amount: big.NewInt(100), Round: 1})
	h.apply(t, &model.ReputationIncreased{User: alice, Points: big.NewInt(30), Reason: "x"})
	h.apply(t, &model.ReferralRewardPending{Referrer: bob, Referee: alice, Token: usdc, Amount: big.NewInt(10)})

	wantCircle := h.getCircle(t, 1)
	wantUser := h.getUser(t, alice)

	require.NoError(t, h.projector.Replay())

	gotCircle := h.getCircle(t, 1)
	require.Equal(t, wantCircle.State, gotCircle.State)
	require.Equal(t, wantCircle.CurrentMembers, gotCircle.CurrentMembers)
	require.Equal(t, wantCircle.CurrentRound, gotCircle.CurrentRound)
	require.Equal(t, 0, wantCircle.TotalPot.Cmp(gotCircle.TotalPot))

	gotUser := h.getUser(t, alice)
	require.Equal(t, 0, wantUser.TotalReputation.Cmp(gotUser.TotalReputation))
	require.Equal(t, wantUser.IsReferralProcessed, gotUser.IsReferralProcessed)

	// Replay refolds the existing log without appending new records.
	require.Equal(t, 6, h.store.EventCount())
}

func goalKey(owner ethcommon.Address, goalID uint64) string {
	return identity.GoalKey(owner, goalID)
}
