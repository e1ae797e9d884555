// Package indexer wires the log feed to the decoder and the projector. It is
// the feed Consumer: it declares which contracts and topics to fetch, decodes
// every delivered log, and applies the resulting events in order.
package indexer

import (
	"fmt"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/DevBigEazi/circlepot-indexer/internal/decoder"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/projector"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Indexer turns raw logs from the four Circlepot contracts into aggregate
// updates. Each contract address maps to one event family; logs carrying a
// topic outside their contract's family are dropped.
type Indexer struct {
	decoder    *decoder.Decoder
	projector  *projector.Projector
	store      store.Store
	families   map[ethcommon.Address]decoder.Family
	topics     map[ethcommon.Address][]ethcommon.Hash
	startBlock uint64
	log        *logger.Logger
}

// New builds an indexer for the configured contract addresses.
func New(
	cfg *config.Config,
	dec *decoder.Decoder,
	proj *projector.Projector,
	st store.Store,
	log *logger.Logger,
) *Indexer {
	families := map[ethcommon.Address]decoder.Family{
		ethcommon.HexToAddress(cfg.Contracts.CircleSavings):   decoder.FamilyCircle,
		ethcommon.HexToAddress(cfg.Contracts.PersonalSavings): decoder.FamilyGoal,
		ethcommon.HexToAddress(cfg.Contracts.Reputation):      decoder.FamilyReputation,
		ethcommon.HexToAddress(cfg.Contracts.UserProfile):     decoder.FamilyProfile,
	}

	topics := make(map[ethcommon.Address][]ethcommon.Hash, len(families))
	for address, family := range families {
		topics[address] = dec.Topics(family)
	}

	return &Indexer{
		decoder:    dec,
		projector:  proj,
		store:      st,
		families:   families,
		topics:     topics,
		startBlock: cfg.Feed.StartBlock,
		log:        log.WithComponent(common.ComponentIndexer),
	}
}

// EventsToIndex returns the contract addresses and event topics to fetch.
func (i *Indexer) EventsToIndex() map[ethcommon.Address][]ethcommon.Hash {
	return i.topics
}

// StartBlock returns the block indexing starts from on a fresh database.
func (i *Indexer) StartBlock() uint64 {
	return i.startBlock
}

// HandleLogs decodes and applies one batch of logs in the order delivered.
// A decode failure or apply failure aborts the batch; the feed retries it
// without checkpointing, so no log is half-applied and then skipped. Logs
// already on record from an earlier delivery of the same chunk are skipped
// by the projector.
func (i *Indexer) HandleLogs(logs []types.Log, timestamps map[uint64]uint64) error {
	for idx := range logs {
		lg := &logs[idx]

		if !i.belongsTo(lg) {
			i.log.Debugf("dropping foreign log from %s at block %d index %d",
				lg.Address, lg.BlockNumber, lg.Index)
			continue
		}

		timestamp, ok := timestamps[lg.BlockNumber]
		if !ok {
			return fmt.Errorf("no timestamp for block %d", lg.BlockNumber)
		}

		ev, err := i.decoder.Decode(i.families[lg.Address], lg, timestamp)
		if err != nil {
			return fmt.Errorf("failed to decode log %s/%d at block %d: %w",
				lg.TxHash, lg.Index, lg.BlockNumber, err)
		}

		if _, err := i.projector.Apply(ev); err != nil {
			return fmt.Errorf("failed to apply %s at block %d: %w",
				ev.Payload.Kind(), lg.BlockNumber, err)
		}
	}

	return nil
}

// HandleReorg truncates every event record from the given block onward and
// rebuilds all aggregates by replaying the surviving log.
func (i *Indexer) HandleReorg(fromBlock uint64) error {
	deleted, err := i.store.DeleteEventsFrom(fromBlock)
	if err != nil {
		return fmt.Errorf("failed to truncate events from block %d: %w", fromBlock, err)
	}

	i.log.Infof("reorg from block %d: truncated %d events, replaying", fromBlock, deleted)

	if err := i.projector.Replay(); err != nil {
		return fmt.Errorf("failed to replay after reorg: %w", err)
	}

	if fromBlock > 0 {
		if err := i.store.SetLastProcessedBlock(fromBlock - 1); err != nil {
			return fmt.Errorf("failed to rewind checkpoint: %w", err)
		}
	}

	return nil
}

// belongsTo reports whether the log's topic zero is registered for the
// contract that emitted it. The upstream filter is an OR over all addresses
// and all topics, so cross-contract pairs can still arrive here.
func (i *Indexer) belongsTo(lg *types.Log) bool {
	if len(lg.Topics) == 0 {
		return false
	}

	for _, topic := range i.topics[lg.Address] {
		if topic == lg.Topics[0] {
			return true
		}
	}
	return false
}
