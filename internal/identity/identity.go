// Package identity derives stable identities for event records and aggregate
// keys. Event identities must be unique across the whole log: events that are
// singular per transaction use the transaction hash alone, events that may
// recur within one transaction fold in the log index, and events that recur
// per participant (e.g. several members forfeited in one settlement) fold in
// the participant address as well. Getting this wrong does not fail loudly --
// it silently overwrites an earlier immutable record -- so the classification
// below errs on the side of the longer identity.
package identity

import (
	"fmt"
	"strings"

	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// ReferralSystemKey is the aggregate key of the singleton referral system record.
const ReferralSystemKey = "referral-system"

// ProtocolKey groups the record-only contract administration events
// (initializations, upgrades, ownership changes, vault and token roster
// updates). No aggregate table backs it; the key only classifies records.
const ProtocolKey = "protocol"

// singularKinds are events the contracts emit at most once per transaction.
// Their record identity is the transaction hash alone, matching the ids the
// downstream consumers already rely on.
var singularKinds = map[model.Kind]struct{}{
	model.KindCircleCreated:     {},
	model.KindCircleStarted:     {},
	model.KindVotingInitiated:   {},
	model.KindVoteExecuted:      {},
	model.KindPayoutDistributed: {},
	model.KindGoalCreated:       {},
	model.KindGoalContribution:  {},
	model.KindGoalWithdrawn:     {},
	model.KindProfileCreated:    {},
}

// EventID returns the log-wide unique identity for the given event.
func EventID(ev *model.Event) string {
	txHash := strings.ToLower(ev.TxHash.Hex())

	if _, singular := singularKinds[ev.Payload.Kind()]; singular {
		return txHash
	}

	// Participant-scoped events additionally carry the affected address:
	// settlement transactions emit them once per member.
	if attributed, ok := ev.Payload.(model.Attributed); ok {
		return fmt.Sprintf("%s-%d-%s", txHash, ev.LogIndex, addressKey(attributed.Participant()))
	}

	return fmt.Sprintf("%s-%d", txHash, ev.LogIndex)
}

// CircleKey returns the aggregate key for a circle id.
func CircleKey(circleID uint64) string {
	return fmt.Sprintf("circle-%d", circleID)
}

// GoalKey returns the composite aggregate key for a personal goal. The same
// numeric goal id can exist under different owners, so the owner address is
// part of the key.
func GoalKey(owner common.Address, goalID uint64) string {
	return fmt.Sprintf("%s-%d", addressKey(owner), goalID)
}

// UserKey returns the aggregate key for a user address.
func UserKey(address common.Address) string {
	return addressKey(address)
}

// TokenKey returns the aggregate key for per-token referral settings.
func TokenKey(token common.Address) string {
	return addressKey(token)
}

func addressKey(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// AggregateKey returns the key of the aggregate the payload affects. Every
// payload maps to exactly one aggregate; record-only payloads map to the
// aggregate they describe.
func AggregateKey(p model.Payload) string {
	switch p := p.(type) {
	case *model.CircleCreated:
		return CircleKey(p.CircleID)
	case *model.CircleJoined:
		return CircleKey(p.CircleID)
	case *model.CircleStarted:
		return CircleKey(p.CircleID)
	case *model.PayoutDistributed:
		return CircleKey(p.CircleID)
	case *model.PositionAssigned:
		return CircleKey(p.CircleID)
	case *model.CollateralWithdrawn:
		return CircleKey(p.CircleID)
	case *model.VotingInitiated:
		return CircleKey(p.CircleID)
	case *model.VoteCast:
		return CircleKey(p.CircleID)
	case *model.VoteExecuted:
		return CircleKey(p.CircleID)
	case *model.ContributionMade:
		return CircleKey(p.CircleID)
	case *model.LateContributionMade:
		return CircleKey(p.CircleID)
	case *model.MemberForfeited:
		return CircleKey(p.CircleID)
	case *model.MemberInvited:
		return CircleKey(p.CircleID)
	case *model.VisibilityUpdated:
		return CircleKey(p.CircleID)
	case *model.CollateralReturned:
		return CircleKey(p.CircleID)
	case *model.DeadCircleFeeDeducted:
		return CircleKey(p.CircleID)
	case *model.PointsAwarded:
		return CircleKey(p.CircleID)
	case *model.CircleYieldDistributed:
		return CircleKey(p.CircleID)
	case *model.LateFeeAddedToPool:
		return CircleKey(p.CircleID)
	case *model.MemberRewardClaimed:
		return CircleKey(p.CircleID)
	case *model.GoalCreated:
		return GoalKey(p.Owner, p.GoalID)
	case *model.GoalContribution:
		return GoalKey(p.Owner, p.GoalID)
	case *model.GoalWithdrawn:
		return GoalKey(p.Owner, p.GoalID)
	case *model.GoalYieldDistributed:
		return GoalKey(p.Owner, p.GoalID)
	case *model.ReputationIncreased:
		return UserKey(p.User)
	case *model.ReputationDecreased:
		return UserKey(p.User)
	case *model.ScoreCategoryChanged:
		return UserKey(p.User)
	case *model.CircleCompleted:
		return UserKey(p.User)
	case *model.GoalCompleted:
		return UserKey(p.User)
	case *model.LatePaymentRecorded:
		return UserKey(p.User)
	case *model.ProfileCreated:
		return UserKey(p.User)
	case *model.ProfileUpdated:
		return UserKey(p.User)
	case *model.ContactInfoUpdated:
		return UserKey(p.User)
	case *model.PhotoUpdated:
		return UserKey(p.User)
	case *model.UserReferred:
		return UserKey(p.NewUser)
	case *model.ReferralRewardPending:
		return UserKey(p.Referrer)
	case *model.ReferralRewardPaid:
		return UserKey(p.Referrer)
	case *model.ReferralBonusUpdated:
		return TokenKey(p.Token)
	case *model.CampaignBonusUpdated:
		return TokenKey(p.Token)
	case *model.RewardFundsDeposited:
		return TokenKey(p.Token)
	case *model.ReferralTokenAdded:
		return TokenKey(p.Token)
	case *model.ReferralTokenRemoved:
		return TokenKey(p.Token)
	case *model.ReferralRewardsToggled,
		*model.CampaignStarted,
		*model.CampaignEnded,
		*model.PersonalSavingsContractUpdated:
		return ReferralSystemKey
	case *model.VaultUpdated,
		*model.SavingsTokenAdded,
		*model.SavingsTokenRemoved,
		*model.Initialized,
		*model.OwnershipTransferred,
		*model.Upgraded,
		*model.ContractAuthorized,
		*model.ContractRevoked,
		*model.ContractUpgraded:
		return ProtocolKey
	default:
		// Unreachable as long as every payload type is listed above.
		return fmt.Sprintf("unknown-%s", p.Kind())
	}
}
