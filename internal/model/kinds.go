package model

import "fmt"

// Kind identifies the type of an observed on-chain event.
type Kind string

// Circle savings events.
const (
	KindCircleCreated          Kind = "CircleCreated"
	KindCircleJoined           Kind = "CircleJoined"
	KindCircleStarted          Kind = "CircleStarted"
	KindPayoutDistributed      Kind = "PayoutDistributed"
	KindPositionAssigned       Kind = "PositionAssigned"
	KindCollateralWithdrawn    Kind = "CollateralWithdrawn"
	KindVotingInitiated        Kind = "VotingInitiated"
	KindVoteCast               Kind = "VoteCast"
	KindVoteExecuted           Kind = "VoteExecuted"
	KindContributionMade       Kind = "ContributionMade"
	KindLateContributionMade   Kind = "LateContributionMade"
	KindMemberForfeited        Kind = "MemberForfeited"
	KindMemberInvited          Kind = "MemberInvited"
	KindVisibilityUpdated      Kind = "VisibilityUpdated"
	KindCollateralReturned     Kind = "CollateralReturned"
	KindDeadCircleFeeDeducted  Kind = "DeadCircleFeeDeducted"
	KindPointsAwarded          Kind = "PointsAwarded"
	KindCircleYieldDistributed Kind = "CircleYieldDistributed"
	KindLateFeeAddedToPool     Kind = "LateFeeAddedToPool"
	KindMemberRewardClaimed    Kind = "MemberRewardClaimed"
)

// Personal savings events.
const (
	KindGoalCreated          Kind = "GoalCreated"
	KindGoalContribution     Kind = "GoalContribution"
	KindGoalWithdrawn        Kind = "GoalWithdrawn"
	KindGoalYieldDistributed Kind = "GoalYieldDistributed"
	KindVaultUpdated         Kind = "VaultUpdated"
	KindSavingsTokenAdded    Kind = "SavingsTokenAdded"
	KindSavingsTokenRemoved  Kind = "SavingsTokenRemoved"
)

// Proxy and ownership events of the upgradeable contracts.
const (
	KindInitialized          Kind = "Initialized"
	KindOwnershipTransferred Kind = "OwnershipTransferred"
	KindUpgraded             Kind = "Upgraded"
	KindContractAuthorized   Kind = "ContractAuthorized"
	KindContractRevoked      Kind = "ContractRevoked"
	KindContractUpgraded     Kind = "ContractUpgraded"
)

// Reputation events.
const (
	KindReputationIncreased  Kind = "ReputationIncreased"
	KindReputationDecreased  Kind = "ReputationDecreased"
	KindScoreCategoryChanged Kind = "ScoreCategoryChanged"
	KindCircleCompleted      Kind = "CircleCompleted"
	KindGoalCompleted        Kind = "GoalCompleted"
	KindLatePaymentRecorded  Kind = "LatePaymentRecorded"
)

// User profile and referral events.
const (
	KindProfileCreated                 Kind = "ProfileCreated"
	KindProfileUpdated                 Kind = "ProfileUpdated"
	KindContactInfoUpdated             Kind = "ContactInfoUpdated"
	KindPhotoUpdated                   Kind = "PhotoUpdated"
	KindUserReferred                   Kind = "UserReferred"
	KindReferralRewardPending          Kind = "ReferralRewardPending"
	KindReferralRewardPaid             Kind = "ReferralRewardPaid"
	KindReferralRewardsToggled         Kind = "ReferralRewardsToggled"
	KindReferralBonusUpdated           Kind = "ReferralBonusUpdated"
	KindCampaignStarted                Kind = "CampaignStarted"
	KindCampaignBonusUpdated           Kind = "CampaignBonusUpdated"
	KindCampaignEnded                  Kind = "CampaignEnded"
	KindRewardFundsDeposited           Kind = "RewardFundsDeposited"
	KindReferralTokenAdded             Kind = "ReferralTokenAdded"
	KindReferralTokenRemoved           Kind = "ReferralTokenRemoved"
	KindPersonalSavingsContractUpdated Kind = "PersonalSavingsContractUpdated"
)

// AllKinds lists every registered event kind.
func AllKinds() []Kind {
	return []Kind{
		KindCircleCreated, KindCircleJoined, KindCircleStarted,
		KindPayoutDistributed, KindPositionAssigned, KindCollateralWithdrawn,
		KindVotingInitiated, KindVoteCast, KindVoteExecuted,
		KindContributionMade, KindLateContributionMade, KindMemberForfeited,
		KindMemberInvited, KindVisibilityUpdated, KindCollateralReturned,
		KindDeadCircleFeeDeducted, KindPointsAwarded, KindCircleYieldDistributed,
		KindLateFeeAddedToPool, KindMemberRewardClaimed,
		KindGoalCreated, KindGoalContribution, KindGoalWithdrawn,
		KindGoalYieldDistributed, KindVaultUpdated, KindSavingsTokenAdded,
		KindSavingsTokenRemoved,
		KindReputationIncreased, KindReputationDecreased, KindScoreCategoryChanged,
		KindCircleCompleted, KindGoalCompleted, KindLatePaymentRecorded,
		KindProfileCreated, KindProfileUpdated, KindContactInfoUpdated,
		KindPhotoUpdated, KindUserReferred, KindReferralRewardPending,
		KindReferralRewardPaid, KindReferralRewardsToggled, KindReferralBonusUpdated,
		KindCampaignStarted, KindCampaignBonusUpdated, KindCampaignEnded,
		KindRewardFundsDeposited, KindReferralTokenAdded, KindReferralTokenRemoved,
		KindPersonalSavingsContractUpdated,
		KindInitialized, KindOwnershipTransferred, KindUpgraded,
		KindContractAuthorized, KindContractRevoked, KindContractUpgraded,
	}
}

// PayloadFor returns a zero-value payload for the given kind, suitable as an
// unmarshaling target when rehydrating stored event records.
func PayloadFor(k Kind) (Payload, error) {
	switch k {
	case KindCircleCreated:
		return &CircleCreated{}, nil
	case KindCircleJoined:
		return &CircleJoined{}, nil
	case KindCircleStarted:
		return &CircleStarted{}, nil
	case KindPayoutDistributed:
		return &PayoutDistributed{}, nil
	case KindPositionAssigned:
		return &PositionAssigned{}, nil
	case KindCollateralWithdrawn:
		return &CollateralWithdrawn{}, nil
	case KindVotingInitiated:
		return &VotingInitiated{}, nil
	case KindVoteCast:
		return &VoteCast{}, nil
	case KindVoteExecuted:
		return &VoteExecuted{}, nil
	case KindContributionMade:
		return &ContributionMade{}, nil
	case KindLateContributionMade:
		return &LateContributionMade{}, nil
	case KindMemberForfeited:
		return &MemberForfeited{}, nil
	case KindMemberInvited:
		return &MemberInvited{}, nil
	case KindVisibilityUpdated:
		return &VisibilityUpdated{}, nil
	case KindCollateralReturned:
		return &CollateralReturned{}, nil
	case KindDeadCircleFeeDeducted:
		return &DeadCircleFeeDeducted{}, nil
	case KindPointsAwarded:
		return &PointsAwarded{}, nil
	case KindCircleYieldDistributed:
		return &CircleYieldDistributed{}, nil
	case KindLateFeeAddedToPool:
		return &LateFeeAddedToPool{}, nil
	case KindMemberRewardClaimed:
		return &MemberRewardClaimed{}, nil
	case KindGoalCreated:
		return &GoalCreated{}, nil
	case KindGoalContribution:
		return &GoalContribution{}, nil
	case KindGoalWithdrawn:
		return &GoalWithdrawn{}, nil
	case KindGoalYieldDistributed:
		return &GoalYieldDistributed{}, nil
	case KindReputationIncreased:
		return &ReputationIncreased{}, nil
	case KindReputationDecreased:
		return &ReputationDecreased{}, nil
	case KindScoreCategoryChanged:
		return &ScoreCategoryChanged{}, nil
	case KindCircleCompleted:
		return &CircleCompleted{}, nil
	case KindGoalCompleted:
		return &GoalCompleted{}, nil
	case KindLatePaymentRecorded:
		return &LatePaymentRecorded{}, nil
	case KindProfileCreated:
		return &ProfileCreated{}, nil
	case KindProfileUpdated:
		return &ProfileUpdated{}, nil
	case KindContactInfoUpdated:
		return &ContactInfoUpdated{}, nil
	case KindPhotoUpdated:
		return &PhotoUpdated{}, nil
	case KindUserReferred:
		return &UserReferred{}, nil
	case KindReferralRewardPending:
		return &ReferralRewardPending{}, nil
	case KindReferralRewardPaid:
		return &ReferralRewardPaid{}, nil
	case KindReferralRewardsToggled:
		return &ReferralRewardsToggled{}, nil
	case KindReferralBonusUpdated:
		return &ReferralBonusUpdated{}, nil
	case KindCampaignStarted:
		return &CampaignStarted{}, nil
	case KindCampaignBonusUpdated:
		return &CampaignBonusUpdated{}, nil
	case KindCampaignEnded:
		return &CampaignEnded{}, nil
	case KindRewardFundsDeposited:
		return &RewardFundsDeposited{}, nil
	case KindReferralTokenAdded:
		return &ReferralTokenAdded{}, nil
	case KindReferralTokenRemoved:
		return &ReferralTokenRemoved{}, nil
	case KindPersonalSavingsContractUpdated:
		return &PersonalSavingsContractUpdated{}, nil
	case KindVaultUpdated:
		return &VaultUpdated{}, nil
	case KindSavingsTokenAdded:
		return &SavingsTokenAdded{}, nil
	case KindSavingsTokenRemoved:
		return &SavingsTokenRemoved{}, nil
	case KindInitialized:
		return &Initialized{}, nil
	case KindOwnershipTransferred:
		return &OwnershipTransferred{}, nil
	case KindUpgraded:
		return &Upgraded{}, nil
	case KindContractAuthorized:
		return &ContractAuthorized{}, nil
	case KindContractRevoked:
		return &ContractRevoked{}, nil
	case KindContractUpgraded:
		return &ContractUpgraded{}, nil
	default:
		return nil, fmt.Errorf("unknown event kind: %s", k)
	}
}
