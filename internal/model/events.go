package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Payload is the decoded, event-specific part of an observed on-chain event.
// Each payload type belongs to exactly one Kind.
type Payload interface {
	Kind() Kind
}

// Attributed is implemented by payloads that can occur multiple times for
// different participants within a single transaction. The participant address
// is folded into the event identity to avoid silent record overwrites.
type Attributed interface {
	Payload
	Participant() common.Address
}

// Event is one fully-decoded on-chain occurrence together with its provenance.
type Event struct {
	Payload Payload

	TxHash         common.Hash
	BlockNumber    uint64
	BlockTimestamp uint64
	LogIndex       uint
}

// Circle savings payloads.

type CircleCreated struct {
	CircleID           uint64         `json:"circleId"`
	Creator            common.Address `json:"creator"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	ContributionAmount *big.Int       `json:"contributionAmount"`
	CollateralAmount   *big.Int       `json:"collateralAmount"`
	Frequency          uint64         `json:"frequency"`
	MaxMembers         uint64         `json:"maxMembers"`
	IsPublic           bool           `json:"isPublic"`
	IsYieldEnabled     bool           `json:"isYieldEnabled"`
	Token              common.Address `json:"token"`
}

func (*CircleCreated) Kind() Kind { return KindCircleCreated }

type CircleJoined struct {
	CircleID       uint64         `json:"circleId"`
	Member         common.Address `json:"member"`
	CurrentMembers uint64         `json:"currentMembers"`
	State          CircleState    `json:"state"`
}

func (*CircleJoined) Kind() Kind { return KindCircleJoined }

type CircleStarted struct {
	CircleID  uint64 `json:"circleId"`
	StartedAt uint64 `json:"startedAt"`
}

func (*CircleStarted) Kind() Kind { return KindCircleStarted }

type PayoutDistributed struct {
	CircleID  uint64         `json:"circleId"`
	Recipient common.Address `json:"recipient"`
	Amount    *big.Int       `json:"amount"`
	Round     uint64         `json:"round"`
}

func (*PayoutDistributed) Kind() Kind { return KindPayoutDistributed }

type PositionAssigned struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Position uint64         `json:"position"`
}

func (*PositionAssigned) Kind() Kind                    { return KindPositionAssigned }
func (p *PositionAssigned) Participant() common.Address { return p.Member }

type CollateralWithdrawn struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Amount   *big.Int       `json:"amount"`
}

func (*CollateralWithdrawn) Kind() Kind                    { return KindCollateralWithdrawn }
func (c *CollateralWithdrawn) Participant() common.Address { return c.Member }

type VotingInitiated struct {
	CircleID    uint64         `json:"circleId"`
	InitiatedBy common.Address `json:"initiatedBy"`
}

func (*VotingInitiated) Kind() Kind { return KindVotingInitiated }

type VoteCast struct {
	CircleID    uint64         `json:"circleId"`
	Voter       common.Address `json:"voter"`
	VoteToStart bool           `json:"voteToStart"`
}

func (*VoteCast) Kind() Kind { return KindVoteCast }

type VoteExecuted struct {
	CircleID      uint64 `json:"circleId"`
	StartVotes    uint64 `json:"startVotes"`
	WithdrawVotes uint64 `json:"withdrawVotes"`
}

func (*VoteExecuted) Kind() Kind { return KindVoteExecuted }

type ContributionMade struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Amount   *big.Int       `json:"amount"`
	Round    uint64         `json:"round"`
}

func (*ContributionMade) Kind() Kind { return KindContributionMade }

type LateContributionMade struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Amount   *big.Int       `json:"amount"`
	Fee      *big.Int       `json:"fee"`
	Round    uint64         `json:"round"`
}

func (*LateContributionMade) Kind() Kind { return KindLateContributionMade }

type MemberForfeited struct {
	CircleID  uint64         `json:"circleId"`
	Member    common.Address `json:"member"`
	Deduction *big.Int       `json:"deduction"`
	Round     uint64         `json:"round"`
}

func (*MemberForfeited) Kind() Kind                    { return KindMemberForfeited }
func (m *MemberForfeited) Participant() common.Address { return m.Member }

type MemberInvited struct {
	CircleID uint64         `json:"circleId"`
	Inviter  common.Address `json:"inviter"`
	Invitee  common.Address `json:"invitee"`
}

func (*MemberInvited) Kind() Kind { return KindMemberInvited }

type VisibilityUpdated struct {
	CircleID uint64 `json:"circleId"`
	IsPublic bool   `json:"isPublic"`
}

func (*VisibilityUpdated) Kind() Kind { return KindVisibilityUpdated }

type CollateralReturned struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Amount   *big.Int       `json:"amount"`
}

func (*CollateralReturned) Kind() Kind                    { return KindCollateralReturned }
func (c *CollateralReturned) Participant() common.Address { return c.Member }

type DeadCircleFeeDeducted struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Fee      *big.Int       `json:"fee"`
}

func (*DeadCircleFeeDeducted) Kind() Kind                    { return KindDeadCircleFeeDeducted }
func (d *DeadCircleFeeDeducted) Participant() common.Address { return d.Member }

type PointsAwarded struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Points   uint64         `json:"points"`
}

func (*PointsAwarded) Kind() Kind                    { return KindPointsAwarded }
func (p *PointsAwarded) Participant() common.Address { return p.Member }

type CircleYieldDistributed struct {
	CircleID      uint64         `json:"circleId"`
	YieldAmount   *big.Int       `json:"yieldAmount"`
	PlatformShare *big.Int       `json:"platformShare"`
	Token         common.Address `json:"token"`
}

func (*CircleYieldDistributed) Kind() Kind { return KindCircleYieldDistributed }

type LateFeeAddedToPool struct {
	CircleID uint64   `json:"circleId"`
	Amount   *big.Int `json:"amount"`
	Round    uint64   `json:"round"`
}

func (*LateFeeAddedToPool) Kind() Kind { return KindLateFeeAddedToPool }

type MemberRewardClaimed struct {
	CircleID uint64         `json:"circleId"`
	Member   common.Address `json:"member"`
	Amount   *big.Int       `json:"amount"`
}

func (*MemberRewardClaimed) Kind() Kind                    { return KindMemberRewardClaimed }
func (m *MemberRewardClaimed) Participant() common.Address { return m.Member }

// Personal savings payloads.

type GoalCreated struct {
	Owner         common.Address `json:"owner"`
	GoalID        uint64         `json:"goalId"`
	Name          string         `json:"name"`
	TargetAmount  *big.Int       `json:"targetAmount"`
	CurrentAmount *big.Int       `json:"currentAmount"`
	Frequency     uint64         `json:"frequency"`
	Deadline      uint64         `json:"deadline"`
	IsActive      bool           `json:"isActive"`
	Token         common.Address `json:"token"`
}

func (*GoalCreated) Kind() Kind { return KindGoalCreated }

type GoalContribution struct {
	Owner         common.Address `json:"owner"`
	GoalID        uint64         `json:"goalId"`
	Amount        *big.Int       `json:"amount"`
	CurrentAmount *big.Int       `json:"currentAmount"`
	Token         common.Address `json:"token"`
}

func (*GoalContribution) Kind() Kind { return KindGoalContribution }

type GoalWithdrawn struct {
	Owner   common.Address `json:"owner"`
	GoalID  uint64         `json:"goalId"`
	Amount  *big.Int       `json:"amount"`
	Penalty *big.Int       `json:"penalty"`
	Token   common.Address `json:"token"`
}

func (*GoalWithdrawn) Kind() Kind { return KindGoalWithdrawn }

type GoalYieldDistributed struct {
	Owner         common.Address `json:"owner"`
	GoalID        uint64         `json:"goalId"`
	YieldAmount   *big.Int       `json:"yieldAmount"`
	PlatformShare *big.Int       `json:"platformShare"`
	Token         common.Address `json:"token"`
}

func (*GoalYieldDistributed) Kind() Kind { return KindGoalYieldDistributed }

// Reputation payloads.

type ReputationIncreased struct {
	User   common.Address `json:"user"`
	Points *big.Int       `json:"points"`
	Reason string         `json:"reason"`
}

func (*ReputationIncreased) Kind() Kind                    { return KindReputationIncreased }
func (r *ReputationIncreased) Participant() common.Address { return r.User }

type ReputationDecreased struct {
	User   common.Address `json:"user"`
	Points *big.Int       `json:"points"`
	Reason string         `json:"reason"`
}

func (*ReputationDecreased) Kind() Kind                    { return KindReputationDecreased }
func (r *ReputationDecreased) Participant() common.Address { return r.User }

type ScoreCategoryChanged struct {
	User        common.Address `json:"user"`
	OldCategory uint8          `json:"oldCategory"`
	NewCategory uint8          `json:"newCategory"`
}

func (*ScoreCategoryChanged) Kind() Kind                    { return KindScoreCategoryChanged }
func (s *ScoreCategoryChanged) Participant() common.Address { return s.User }

type CircleCompleted struct {
	User           common.Address `json:"user"`
	CircleID       uint64         `json:"circleId"`
	TotalCompleted uint64         `json:"totalCompleted"`
}

func (*CircleCompleted) Kind() Kind                    { return KindCircleCompleted }
func (c *CircleCompleted) Participant() common.Address { return c.User }

type GoalCompleted struct {
	User           common.Address `json:"user"`
	GoalID         uint64         `json:"goalId"`
	TotalCompleted uint64         `json:"totalCompleted"`
}

func (*GoalCompleted) Kind() Kind                    { return KindGoalCompleted }
func (g *GoalCompleted) Participant() common.Address { return g.User }

type LatePaymentRecorded struct {
	User              common.Address `json:"user"`
	CircleID          uint64         `json:"circleId"`
	Round             uint64         `json:"round"`
	Fee               *big.Int       `json:"fee"`
	TotalLatePayments uint64         `json:"totalLatePayments"`
}

func (*LatePaymentRecorded) Kind() Kind                    { return KindLatePaymentRecorded }
func (l *LatePaymentRecorded) Participant() common.Address { return l.User }

// User profile and referral payloads.

type ProfileCreated struct {
	User        common.Address `json:"user"`
	AccountID   uint64         `json:"accountId"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
	Username    string         `json:"username"`
	FullName    string         `json:"fullName"`
	Photo       string         `json:"photo"`
	CreatedAt   uint64         `json:"createdAt"`
	HasProfile  bool           `json:"hasProfile"`
}

func (*ProfileCreated) Kind() Kind { return KindProfileCreated }

type ProfileUpdated struct {
	User     common.Address `json:"user"`
	FullName string         `json:"fullName"`
	Photo    string         `json:"photo"`
}

func (*ProfileUpdated) Kind() Kind { return KindProfileUpdated }

type ContactInfoUpdated struct {
	User        common.Address `json:"user"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
}

func (*ContactInfoUpdated) Kind() Kind { return KindContactInfoUpdated }

type PhotoUpdated struct {
	User  common.Address `json:"user"`
	Photo string         `json:"photo"`
}

func (*PhotoUpdated) Kind() Kind { return KindPhotoUpdated }

type UserReferred struct {
	NewUser  common.Address `json:"newUser"`
	Referrer common.Address `json:"referrer"`
}

func (*UserReferred) Kind() Kind { return KindUserReferred }

type ReferralRewardPending struct {
	Referrer common.Address `json:"referrer"`
	Referee  common.Address `json:"referee"`
	Token    common.Address `json:"token"`
	Amount   *big.Int       `json:"amount"`
}

func (*ReferralRewardPending) Kind() Kind { return KindReferralRewardPending }

type ReferralRewardPaid struct {
	Referrer common.Address `json:"referrer"`
	Referee  common.Address `json:"referee"`
	Token    common.Address `json:"token"`
	Amount   *big.Int       `json:"amount"`
}

func (*ReferralRewardPaid) Kind() Kind { return KindReferralRewardPaid }

type ReferralRewardsToggled struct {
	Enabled bool `json:"enabled"`
}

func (*ReferralRewardsToggled) Kind() Kind { return KindReferralRewardsToggled }

type ReferralBonusUpdated struct {
	Token     common.Address `json:"token"`
	NewAmount *big.Int       `json:"newAmount"`
}

func (*ReferralBonusUpdated) Kind() Kind { return KindReferralBonusUpdated }

type CampaignStarted struct {
	StartTime uint64 `json:"startTime"`
	EndTime   uint64 `json:"endTime"`
}

func (*CampaignStarted) Kind() Kind { return KindCampaignStarted }

type CampaignBonusUpdated struct {
	Token       common.Address `json:"token"`
	BonusAmount *big.Int       `json:"bonusAmount"`
}

func (*CampaignBonusUpdated) Kind() Kind { return KindCampaignBonusUpdated }

type CampaignEnded struct{}

func (*CampaignEnded) Kind() Kind { return KindCampaignEnded }

type RewardFundsDeposited struct {
	From   common.Address `json:"from"`
	Token  common.Address `json:"token"`
	Amount *big.Int       `json:"amount"`
}

func (*RewardFundsDeposited) Kind() Kind { return KindRewardFundsDeposited }

type ReferralTokenAdded struct {
	Token common.Address `json:"token"`
}

func (*ReferralTokenAdded) Kind() Kind { return KindReferralTokenAdded }

type ReferralTokenRemoved struct {
	Token common.Address `json:"token"`
}

func (*ReferralTokenRemoved) Kind() Kind { return KindReferralTokenRemoved }

type PersonalSavingsContractUpdated struct {
	NewContract common.Address `json:"newContract"`
}

func (*PersonalSavingsContractUpdated) Kind() Kind { return KindPersonalSavingsContractUpdated }

// Personal savings administration payloads. Record-only provenance.

type VaultUpdated struct {
	Token    common.Address `json:"token"`
	NewVault common.Address `json:"newVault"`
}

func (*VaultUpdated) Kind() Kind { return KindVaultUpdated }

type SavingsTokenAdded struct {
	Token common.Address `json:"token"`
}

func (*SavingsTokenAdded) Kind() Kind { return KindSavingsTokenAdded }

type SavingsTokenRemoved struct {
	Token common.Address `json:"token"`
}

func (*SavingsTokenRemoved) Kind() Kind { return KindSavingsTokenRemoved }

// Proxy and ownership payloads, shared by the upgradeable contracts.
// Record-only provenance.

type Initialized struct {
	Version uint64 `json:"version"`
}

func (*Initialized) Kind() Kind { return KindInitialized }

type OwnershipTransferred struct {
	PreviousOwner common.Address `json:"previousOwner"`
	NewOwner      common.Address `json:"newOwner"`
}

func (*OwnershipTransferred) Kind() Kind { return KindOwnershipTransferred }

type Upgraded struct {
	Implementation common.Address `json:"implementation"`
}

func (*Upgraded) Kind() Kind { return KindUpgraded }

type ContractAuthorized struct {
	Contract common.Address `json:"contractAddress"`
}

func (*ContractAuthorized) Kind() Kind { return KindContractAuthorized }

type ContractRevoked struct {
	Contract common.Address `json:"contractAddress"`
}

func (*ContractRevoked) Kind() Kind { return KindContractRevoked }

type ContractUpgraded struct {
	NewImplementation common.Address `json:"newImplementation"`
	Version           uint64         `json:"version"`
}

func (*ContractUpgraded) Kind() Kind { return KindContractUpgraded }
