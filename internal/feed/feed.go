// Package feed drives the indexer: it polls the RPC endpoint for logs of
// the configured contracts in bounded block chunks, respects the configured
// finality level, resolves block timestamps, and hands ordered batches to
// the consumer. The checkpoint lives in the aggregate store so a restart
// resumes exactly where the last committed batch ended.
package feed

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/rpc"
	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthClient is the RPC surface the feed needs.
type EthClient interface {
	Logs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	LatestHeader(ctx context.Context) (*types.Header, error)
	FinalizedHeader(ctx context.Context) (*types.Header, error)
	SafeHeader(ctx context.Context) (*types.Header, error)
	HeadersByNumbers(ctx context.Context, blockNums []uint64) ([]*types.Header, error)
}

// Consumer receives every fetched log batch in order. Timestamps maps block
// number to block timestamp for every block that appears in the batch.
type Consumer interface {
	EventsToIndex() map[ethcommon.Address][]ethcommon.Hash
	HandleLogs(logs []types.Log, timestamps map[uint64]uint64) error
	StartBlock() uint64
}

// Checkpointer persists the last fully processed block.
type Checkpointer interface {
	LastProcessedBlock() (blockNum uint64, ok bool, err error)
	SetLastProcessedBlock(blockNum uint64) error
}

// Feed polls for logs and forwards them to the consumer.
type Feed struct {
	cfg        config.FeedConfig
	client     EthClient
	consumer   Consumer
	checkpoint Checkpointer
	log        *logger.Logger

	addresses []ethcommon.Address
	topics    [][]ethcommon.Hash
}

// New creates a Feed. The filter is built once from the consumer's contract
// and topic registration.
func New(cfg config.FeedConfig, client EthClient, consumer Consumer, checkpoint Checkpointer, log *logger.Logger) *Feed {
	var addresses []ethcommon.Address
	topicSet := make(map[ethcommon.Hash]struct{})
	for addr, topics := range consumer.EventsToIndex() {
		addresses = append(addresses, addr)
		for _, topic := range topics {
			topicSet[topic] = struct{}{}
		}
	}

	allTopics := make([]ethcommon.Hash, 0, len(topicSet))
	for topic := range topicSet {
		allTopics = append(allTopics, topic)
	}

	return &Feed{
		cfg:        cfg,
		client:     client,
		consumer:   consumer,
		checkpoint: checkpoint,
		log:        log.WithComponent(common.ComponentFeed),
		addresses:  addresses,
		topics:     [][]ethcommon.Hash{allTopics},
	}
}

// Run polls until the context is cancelled. Every committed chunk advances
// the checkpoint, so the loop is restartable at chunk granularity. Apply and
// checkpoint are separate writes: a crash between them makes the restarted
// feed redeliver the last chunk, which the consumer absorbs by skipping
// already-recorded events.
func (f *Feed) Run(ctx context.Context) error {
	lastProcessed, err := f.resumeBlock()
	if err != nil {
		return err
	}
	f.log.Infof("feed starting after block %d (finality %s, chunk size %d)",
		lastProcessed, f.cfg.Finality, f.cfg.ChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tip, err := f.confirmedTip(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve confirmed tip: %w", err)
		}

		fromBlock := lastProcessed + 1
		if fromBlock > tip {
			// Caught up; wait out roughly one block interval.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(f.cfg.PollInterval.Duration):
			}
			continue
		}

		toBlock := min(fromBlock+f.cfg.ChunkSize-1, tip)

		processedTo, err := f.processRange(ctx, fromBlock, toBlock)
		if err != nil {
			return err
		}

		if err := f.checkpoint.SetLastProcessedBlock(processedTo); err != nil {
			return fmt.Errorf("failed to save checkpoint at block %d: %w", processedTo, err)
		}
		lastProcessed = processedTo
		LastProcessedBlockSet(processedTo)
	}
}

func (f *Feed) resumeBlock() (uint64, error) {
	checkpoint, ok, err := f.checkpoint.LastProcessedBlock()
	if err != nil {
		return 0, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if ok {
		f.log.Infof("resuming from checkpoint block %d", checkpoint)
		return checkpoint, nil
	}

	start := f.consumer.StartBlock()
	if start == 0 {
		return 0, nil
	}
	return start - 1, nil
}

// processRange fetches and forwards one chunk, shrinking the range when the
// provider rejects it as too large. Returns the last block actually covered.
func (f *Feed) processRange(ctx context.Context, fromBlock, toBlock uint64) (uint64, error) {
	for {
		logs, err := f.client.Logs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(fromBlock),
			ToBlock:   new(big.Int).SetUint64(toBlock),
			Addresses: f.addresses,
			Topics:    f.topics,
		})
		if err != nil {
			shrunkTo, ok := f.shrinkRange(err, fromBlock, toBlock)
			if !ok {
				return 0, fmt.Errorf("failed to fetch logs for blocks %d-%d: %w", fromBlock, toBlock, err)
			}
			RangeSplitInc()
			toBlock = shrunkTo
			continue
		}

		if err := f.forward(ctx, logs); err != nil {
			return 0, err
		}

		ChunkProcessed(len(logs))
		if len(logs) > 0 {
			f.log.Debugf("processed %d logs in blocks %d-%d", len(logs), fromBlock, toBlock)
		}
		return toBlock, nil
	}
}

// shrinkRange picks a smaller toBlock after a too-many-results rejection,
// preferring the provider's suggested range over plain halving.
func (f *Feed) shrinkRange(err error, fromBlock, toBlock uint64) (uint64, bool) {
	tooMany, message := rpc.IsTooManyResultsError(err)
	if !tooMany || toBlock <= fromBlock {
		return 0, false
	}

	if _, suggestedTo, ok := rpc.ParseSuggestedBlockRange(message); ok &&
		suggestedTo >= fromBlock && suggestedTo < toBlock {
		f.log.Warnf("provider rejected blocks %d-%d, retrying with suggested end %d",
			fromBlock, toBlock, suggestedTo)
		return suggestedTo, true
	}

	half := fromBlock + (toBlock-fromBlock)/2
	f.log.Warnf("provider rejected blocks %d-%d, halving to %d-%d", fromBlock, toBlock, fromBlock, half)
	return half, true
}

// forward orders the batch, resolves block timestamps and hands it to the
// consumer.
func (f *Feed) forward(ctx context.Context, logs []types.Log) error {
	if len(logs) == 0 {
		return nil
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	timestamps, err := f.blockTimestamps(ctx, logs)
	if err != nil {
		return err
	}

	return f.consumer.HandleLogs(logs, timestamps)
}

func (f *Feed) blockTimestamps(ctx context.Context, logs []types.Log) (map[uint64]uint64, error) {
	seen := make(map[uint64]struct{})
	var blockNums []uint64
	for _, lg := range logs {
		if _, ok := seen[lg.BlockNumber]; !ok {
			seen[lg.BlockNumber] = struct{}{}
			blockNums = append(blockNums, lg.BlockNumber)
		}
	}

	headers, err := f.client.HeadersByNumbers(ctx, blockNums)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch headers for %d blocks: %w", len(blockNums), err)
	}

	timestamps := make(map[uint64]uint64, len(headers))
	for i, header := range headers {
		timestamps[blockNums[i]] = header.Time
	}
	return timestamps, nil
}

// confirmedTip resolves the highest block the configured finality level
// allows processing.
func (f *Feed) confirmedTip(ctx context.Context) (uint64, error) {
	switch f.cfg.Finality {
	case config.FinalityFinalized:
		header, err := f.client.FinalizedHeader(ctx)
		if err != nil {
			return 0, err
		}
		return header.Number.Uint64(), nil
	case config.FinalitySafe:
		header, err := f.client.SafeHeader(ctx)
		if err != nil {
			return 0, err
		}
		return header.Number.Uint64(), nil
	case config.FinalityLatest:
		header, err := f.client.LatestHeader(ctx)
		if err != nil {
			return 0, err
		}
		tip := header.Number.Uint64()
		if tip < f.cfg.FinalizedLag {
			return 0, nil
		}
		return tip - f.cfg.FinalizedLag, nil
	default:
		return 0, fmt.Errorf("invalid finality mode %q", f.cfg.Finality)
	}
}
