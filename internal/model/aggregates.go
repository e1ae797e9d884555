package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CircleState is the lifecycle state of a savings circle. The numeric values
// mirror the on-chain enum and are stable across contract revisions.
type CircleState uint8

const (
	CircleStateCreated   CircleState = 0
	CircleStateActive    CircleState = 1
	CircleStateVoting    CircleState = 2
	CircleStateCompleted CircleState = 4
	CircleStateDead      CircleState = 5
)

// Terminal reports whether the state absorbs further contributions and payouts.
func (s CircleState) Terminal() bool {
	return s == CircleStateCompleted || s == CircleStateDead
}

func (s CircleState) String() string {
	switch s {
	case CircleStateCreated:
		return "Created"
	case CircleStateActive:
		return "Active"
	case CircleStateVoting:
		return "Voting"
	case CircleStateCompleted:
		return "Completed"
	case CircleStateDead:
		return "Dead"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Circle is the mutable projection of one rotating savings circle.
type Circle struct {
	ID       int64  `meddler:"id,pk"`
	CircleID uint64 `meddler:"circle_id"`

	Creator            common.Address `meddler:"creator,address"`
	Name               string         `meddler:"name"`
	Description        string         `meddler:"description"`
	ContributionAmount *big.Int       `meddler:"contribution_amount,bigint"`
	CollateralAmount   *big.Int       `meddler:"collateral_amount,bigint"`
	Frequency          uint64         `meddler:"frequency"`
	MaxMembers         uint64         `meddler:"max_members"`
	CurrentMembers     uint64         `meddler:"current_members"`
	CurrentRound       uint64         `meddler:"current_round"`
	State              CircleState    `meddler:"state"`
	IsPublic           bool           `meddler:"is_public"`

	// Per-round accumulators; reset to zero exactly at round rollover.
	TotalPot               *big.Int `meddler:"total_pot,bigint"`
	ContributionsThisRound uint64   `meddler:"contributions_this_round"`

	LateFeePool *big.Int `meddler:"late_fee_pool,bigint"`
	TotalPoints uint64   `meddler:"total_points"`

	VoteWithdrawWon bool   `meddler:"vote_withdraw_won"`
	LastVoteResult  string `meddler:"last_vote_result"`

	IsYieldEnabled bool           `meddler:"is_yield_enabled"`
	Token          common.Address `meddler:"token,address"`

	CreatedAt uint64 `meddler:"created_at"`
	StartedAt uint64 `meddler:"started_at"`
	UpdatedAt uint64 `meddler:"updated_at"`
}

// PersonalGoal is the mutable projection of one personal savings goal,
// keyed by the owner address plus the numeric goal id.
type PersonalGoal struct {
	ID  int64  `meddler:"id,pk"`
	Key string `meddler:"goal_key"`

	Owner         common.Address `meddler:"owner,address"`
	GoalID        uint64         `meddler:"goal_id"`
	Name          string         `meddler:"name"`
	TargetAmount  *big.Int       `meddler:"target_amount,bigint"`
	CurrentAmount *big.Int       `meddler:"current_amount,bigint"`
	Frequency     uint64         `meddler:"frequency"`
	Deadline      uint64         `meddler:"deadline"`

	// IsActive turns false exactly once, on withdrawal or completion,
	// and never reverts to true.
	IsActive       bool           `meddler:"is_active"`
	IsYieldEnabled bool           `meddler:"is_yield_enabled"`
	Token          common.Address `meddler:"token,address"`

	CreatedAt uint64 `meddler:"created_at"`
	UpdatedAt uint64 `meddler:"updated_at"`
}

// User is the mutable projection of one user: profile, reputation and
// referral state, keyed by wallet address.
type User struct {
	ID      int64          `meddler:"id,pk"`
	Address common.Address `meddler:"address,address"`

	Email             string `meddler:"email"`
	PhoneNumber       string `meddler:"phone_number"`
	Username          string `meddler:"username"`
	UsernameLowercase string `meddler:"username_lowercase"`
	FullName          string `meddler:"full_name"`
	AccountID         uint64 `meddler:"account_id"`
	Photo             string `meddler:"photo"`
	HasProfile        bool   `meddler:"has_profile"`
	EmailIsOriginal   bool   `meddler:"email_is_original"`
	PhoneIsOriginal   bool   `meddler:"phone_is_original"`
	CreatedAt         uint64 `meddler:"created_at"`
	LastProfileUpdate uint64 `meddler:"last_profile_update"`

	RepCategory           uint8    `meddler:"rep_category"`
	TotalReputation       *big.Int `meddler:"total_reputation,bigint"`
	TotalLatePayments     uint64   `meddler:"total_late_payments"`
	TotalGoalsCompleted   uint64   `meddler:"total_goals_completed"`
	TotalCirclesCompleted uint64   `meddler:"total_circles_completed"`

	ReferredBy                 *common.Address `meddler:"referred_by,address"`
	ReferralCount              uint64          `meddler:"referral_count"`
	TotalReferralRewardsEarned *big.Int        `meddler:"total_referral_rewards_earned,bigint"`
	PendingRewardsEarned       *big.Int        `meddler:"pending_rewards_earned,bigint"`
	IsReferralProcessed        bool            `meddler:"is_referral_processed"`
	IsReferralPaid             bool            `meddler:"is_referral_paid"`

	UpdatedAt uint64 `meddler:"updated_at"`
}

// NewUser returns a fresh user aggregate with all accumulators zeroed,
// created lazily on first reference.
func NewUser(address common.Address) *User {
	return &User{
		Address:                    address,
		TotalReputation:            big.NewInt(0),
		TotalReferralRewardsEarned: big.NewInt(0),
		PendingRewardsEarned:       big.NewInt(0),
	}
}

// ReferralSystem is the singleton projection of referral program settings.
type ReferralSystem struct {
	ID  int64  `meddler:"id,pk"`
	Key string `meddler:"system_key"`

	RewardsEnabled          bool           `meddler:"rewards_enabled"`
	CampaignMode            bool           `meddler:"campaign_mode"`
	CampaignStartTime       uint64         `meddler:"campaign_start_time"`
	CampaignEndTime         uint64         `meddler:"campaign_end_time"`
	PersonalSavingsContract common.Address `meddler:"personal_savings_contract,address"`
}

// ReferralTokenSettings is the per-token referral reward configuration.
// Cumulative totals only ever grow; the record itself is deleted when the
// token is removed from the program.
type ReferralTokenSettings struct {
	ID    int64          `meddler:"id,pk"`
	Token common.Address `meddler:"token,address"`

	BonusAmount         *big.Int `meddler:"bonus_amount,bigint"`
	CampaignBonusAmount *big.Int `meddler:"campaign_bonus_amount,bigint"`
	TotalRewardsFunded  *big.Int `meddler:"total_rewards_funded,bigint"`
	TotalRewardsPaid    *big.Int `meddler:"total_rewards_paid,bigint"`
}

// NewReferralTokenSettings returns zeroed settings for a token.
func NewReferralTokenSettings(token common.Address) *ReferralTokenSettings {
	return &ReferralTokenSettings{
		Token:               token,
		BonusAmount:         big.NewInt(0),
		CampaignBonusAmount: big.NewInt(0),
		TotalRewardsFunded:  big.NewInt(0),
		TotalRewardsPaid:    big.NewInt(0),
	}
}

// EventRecord is the immutable, append-only log entry for one observed event.
// Once written it is never mutated or deleted (chain rollback truncation aside).
type EventRecord struct {
	ID int64 `meddler:"id,pk"`

	// EventID is the log-wide unique identity derived by the identity resolver.
	EventID      string `meddler:"event_id"`
	Kind         string `meddler:"kind"`
	AggregateKey string `meddler:"aggregate_key"`

	TxHash         common.Hash `meddler:"tx_hash,hash"`
	BlockNumber    uint64      `meddler:"block_number"`
	BlockTimestamp uint64      `meddler:"block_timestamp"`
	LogIndex       uint        `meddler:"log_index"`

	// Payload is the JSON-encoded event payload.
	Payload []byte `meddler:"payload"`
}
