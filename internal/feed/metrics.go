package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lastProcessedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circlepot_feed_last_processed_block",
		Help: "Last block the feed has fully processed and checkpointed.",
	})

	chunksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circlepot_feed_chunks_processed_total",
		Help: "Number of block chunks fetched and handed to the consumer.",
	})

	logsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circlepot_feed_logs_fetched_total",
		Help: "Number of logs fetched from the RPC endpoint.",
	})

	rangeSplits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circlepot_feed_range_splits_total",
		Help: "Number of times a block range was shrunk after a too-many-results rejection.",
	})
)

// LastProcessedBlockSet records the feed checkpoint.
func LastProcessedBlockSet(blockNum uint64) {
	lastProcessedBlock.Set(float64(blockNum))
}

// ChunkProcessed records one completed chunk and its log count.
func ChunkProcessed(logCount int) {
	chunksProcessed.Inc()
	logsFetched.Add(float64(logCount))
}

// RangeSplitInc records one range shrink.
func RangeSplitInc() {
	rangeSplits.Inc()
}
