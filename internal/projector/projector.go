// Package projector folds the ordered stream of decoded Circlepot events
// into current-state aggregates. It is a synchronous, deterministic fold:
// one event in, one immutable record appended, at most one aggregate
// mutated. Events must arrive in block order, then log-index order. The feed
// redelivers a whole chunk when it crashed between applying the logs and
// advancing its checkpoint, so an event whose identity and content are
// already on record is skipped without refolding; two different events under
// one identity remain a fatal data-integrity violation.
package projector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DevBigEazi/circlepot-indexer/internal/chainstate"
	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/identity"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/model"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
)

// Result classifies the outcome of applying one event.
type Result int

const (
	// Applied means the event was recorded and any aggregate effect took place.
	Applied Result = iota

	// SkippedMissingAggregate means the event was recorded but its update-only
	// aggregate effect was skipped because the aggregate does not exist yet.
	// This is an expected, recoverable condition, not an error.
	SkippedMissingAggregate

	// SkippedDuplicate means an identical record already existed, so nothing
	// was appended or folded. This happens when the feed redelivers a chunk
	// it had applied but not checkpointed.
	SkippedDuplicate
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case SkippedMissingAggregate:
		return "skipped-missing-aggregate"
	case SkippedDuplicate:
		return "skipped-duplicate"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Projector applies decoded events to the aggregate store.
type Projector struct {
	store store.Store
	chain chainstate.Reader
	log   *logger.Logger
}

// New creates a Projector. The chain reader may be nil, in which case no
// authoritative-state enrichment is attempted.
func New(st store.Store, chain chainstate.Reader, log *logger.Logger) *Projector {
	if chain == nil {
		chain = chainstate.NopReader{}
	}
	return &Projector{
		store: st,
		chain: chain,
		log:   log.WithComponent(common.ComponentProjector),
	}
}

// Apply records the event and folds it into its aggregate. The record append
// happens first, so no aggregate is touched when the append is refused. A
// refused append whose stored record matches the incoming event is a feed
// redelivery and resolves to SkippedDuplicate; any other duplicate identity
// is a data-integrity violation and fails the call.
func (p *Projector) Apply(ev *model.Event) (Result, error) {
	record, err := p.buildRecord(ev)
	if err != nil {
		return 0, err
	}

	if err := p.store.AppendEvent(record); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			return p.resolveDuplicate(record, err)
		}
		return 0, err
	}

	result, err := p.fold(ev)
	if err != nil {
		return result, err
	}

	kind := string(ev.Payload.Kind())
	switch result {
	case Applied:
		EventAppliedInc(kind)
	case SkippedMissingAggregate:
		EventSkippedInc(kind)
		p.log.Warnf("skipped %s at block %d: aggregate %s not found",
			kind, ev.BlockNumber, record.AggregateKey)
	}

	return result, nil
}

// resolveDuplicate decides whether a refused append was a redelivery. The
// stored record under the same identity must match field for field, payload
// bytes included; the payload encoding is deterministic, so a redecoded copy
// of the same log marshals identically. A mismatch means two distinct events
// derived one identity, which the append error already describes.
func (p *Projector) resolveDuplicate(record *model.EventRecord, appendErr error) (Result, error) {
	stored, err := p.store.GetEvent(record.EventID)
	if err != nil {
		return 0, fmt.Errorf("failed to load duplicate of event %s: %w", record.EventID, err)
	}

	if stored.TxHash == record.TxHash &&
		stored.BlockNumber == record.BlockNumber &&
		stored.LogIndex == record.LogIndex &&
		stored.Kind == record.Kind &&
		bytes.Equal(stored.Payload, record.Payload) {
		EventDuplicateInc(record.Kind)
		p.log.Debugf("event %s at block %d already recorded, skipping redelivery",
			record.EventID, record.BlockNumber)
		return SkippedDuplicate, nil
	}

	return 0, appendErr
}

// Replay rebuilds every aggregate from the stored event log. Aggregates are
// cleared first, then each record is refolded in (block, log index) order.
// No authoritative-state reads happen during replay, so the result depends
// only on the log.
func (p *Projector) Replay() error {
	if err := p.store.ResetAggregates(); err != nil {
		return err
	}

	replayer := &Projector{
		store: p.store,
		chain: chainstate.NopReader{},
		log:   p.log,
	}

	var count int
	err := p.store.EventsInOrder(func(record *model.EventRecord) error {
		ev, err := rehydrate(record)
		if err != nil {
			return err
		}
		if _, err := replayer.fold(ev); err != nil {
			return fmt.Errorf("replay of event %s failed: %w", record.EventID, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	p.log.Infof("replayed %d events", count)
	return nil
}

func (p *Projector) buildRecord(ev *model.Event) (*model.EventRecord, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", ev.Payload.Kind(), err)
	}

	return &model.EventRecord{
		EventID:        identity.EventID(ev),
		Kind:           string(ev.Payload.Kind()),
		AggregateKey:   identity.AggregateKey(ev.Payload),
		TxHash:         ev.TxHash,
		BlockNumber:    ev.BlockNumber,
		BlockTimestamp: ev.BlockTimestamp,
		LogIndex:       ev.LogIndex,
		Payload:        payload,
	}, nil
}

// fold dispatches one event to its aggregate family. It does not append the
// event record; Apply and Replay own that decision.
func (p *Projector) fold(ev *model.Event) (Result, error) {
	switch payload := ev.Payload.(type) {
	// Circle savings.
	case *model.CircleCreated:
		return p.applyCircleCreated(ev, payload)
	case *model.CircleJoined:
		return p.applyCircleJoined(ev, payload)
	case *model.CircleStarted:
		return p.applyCircleStarted(ev, payload)
	case *model.VotingInitiated:
		return p.applyVotingInitiated(ev, payload)
	case *model.VoteExecuted:
		return p.applyVoteExecuted(ev, payload)
	case *model.ContributionMade:
		return p.applyContribution(ev, payload.CircleID, payload.Amount)
	case *model.LateContributionMade:
		return p.applyContribution(ev, payload.CircleID, payload.Amount)
	case *model.MemberForfeited:
		return p.applyMemberForfeited(ev, payload)
	case *model.PayoutDistributed:
		return p.applyPayoutDistributed(ev, payload)
	case *model.CollateralWithdrawn:
		return p.applyCollateralWithdrawn(ev, payload)
	case *model.VisibilityUpdated:
		return p.applyVisibilityUpdated(ev, payload)
	case *model.PointsAwarded:
		return p.applyPointsAwarded(ev, payload)
	case *model.LateFeeAddedToPool:
		return p.applyLateFeeAddedToPool(ev, payload)
	case *model.PositionAssigned,
		*model.VoteCast,
		*model.MemberInvited,
		*model.CollateralReturned,
		*model.DeadCircleFeeDeducted,
		*model.CircleYieldDistributed,
		*model.MemberRewardClaimed:
		// Record-only: the immutable event record is the whole effect.
		return Applied, nil

	// Personal savings.
	case *model.GoalCreated:
		return p.applyGoalCreated(ev, payload)
	case *model.GoalContribution:
		return p.applyGoalContribution(ev, payload)
	case *model.GoalWithdrawn:
		return p.applyGoalWithdrawn(ev, payload)
	case *model.GoalYieldDistributed,
		*model.VaultUpdated,
		*model.SavingsTokenAdded,
		*model.SavingsTokenRemoved:
		return Applied, nil

	// Reputation.
	case *model.ReputationIncreased:
		return p.applyReputationChanged(ev, payload.User, payload.Points, false)
	case *model.ReputationDecreased:
		return p.applyReputationChanged(ev, payload.User, payload.Points, true)
	case *model.ScoreCategoryChanged:
		return p.applyScoreCategoryChanged(ev, payload)
	case *model.CircleCompleted:
		return p.applyCircleCompleted(ev, payload)
	case *model.GoalCompleted:
		return p.applyGoalCompleted(ev, payload)
	case *model.LatePaymentRecorded:
		return p.applyLatePaymentRecorded(ev, payload)

	// User profile and referrals.
	case *model.ProfileCreated:
		return p.applyProfileCreated(ev, payload)
	case *model.ProfileUpdated:
		return p.applyProfileUpdated(ev, payload)
	case *model.ContactInfoUpdated:
		return p.applyContactInfoUpdated(ev, payload)
	case *model.PhotoUpdated:
		return p.applyPhotoUpdated(ev, payload)
	case *model.UserReferred:
		return p.applyUserReferred(ev, payload)
	case *model.ReferralRewardPending:
		return p.applyReferralRewardPending(ev, payload)
	case *model.ReferralRewardPaid:
		return p.applyReferralRewardPaid(ev, payload)
	case *model.ReferralRewardsToggled:
		return p.applyReferralRewardsToggled(payload)
	case *model.ReferralBonusUpdated:
		return p.applyReferralBonusUpdated(payload)
	case *model.CampaignStarted:
		return p.applyCampaignStarted(payload)
	case *model.CampaignBonusUpdated:
		return p.applyCampaignBonusUpdated(payload)
	case *model.CampaignEnded:
		return p.applyCampaignEnded()
	case *model.RewardFundsDeposited:
		return p.applyRewardFundsDeposited(payload)
	case *model.ReferralTokenAdded:
		return p.applyReferralTokenAdded(payload)
	case *model.ReferralTokenRemoved:
		return p.applyReferralTokenRemoved(payload)
	case *model.PersonalSavingsContractUpdated:
		return p.applyPersonalSavingsContractUpdated(payload)

	// Proxy and ownership administration, recorded for provenance only.
	case *model.Initialized,
		*model.OwnershipTransferred,
		*model.Upgraded,
		*model.ContractAuthorized,
		*model.ContractRevoked,
		*model.ContractUpgraded:
		return Applied, nil

	default:
		return 0, fmt.Errorf("no projector handler for event kind %s", ev.Payload.Kind())
	}
}

func rehydrate(record *model.EventRecord) (*model.Event, error) {
	payload, err := model.PayloadFor(model.Kind(record.Kind))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(record.Payload, payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored %s payload: %w", record.Kind, err)
	}

	return &model.Event{
		Payload:        payload,
		TxHash:         record.TxHash,
		BlockNumber:    record.BlockNumber,
		BlockTimestamp: record.BlockTimestamp,
		LogIndex:       record.LogIndex,
	}, nil
}
