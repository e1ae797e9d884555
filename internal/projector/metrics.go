package projector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_projector_events_applied_total",
		Help: "Number of events applied to aggregates, by event kind.",
	}, []string{"kind"})

	eventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_projector_events_skipped_total",
		Help: "Number of events recorded but skipped because their aggregate did not exist, by event kind.",
	}, []string{"kind"})

	eventsDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_projector_events_duplicate_total",
		Help: "Number of redelivered events skipped because an identical record already existed, by event kind.",
	}, []string{"kind"})

	stateFetchFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circlepot_projector_state_fetch_fallbacks_total",
		Help: "Number of times on-chain state enrichment was unavailable and the event-payload fallback was used.",
	})
)

// EventAppliedInc increments the applied counter for the given event kind.
func EventAppliedInc(kind string) {
	eventsApplied.WithLabelValues(kind).Inc()
}

// EventSkippedInc increments the skipped counter for the given event kind.
func EventSkippedInc(kind string) {
	eventsSkipped.WithLabelValues(kind).Inc()
}

// EventDuplicateInc increments the skipped-redelivery counter for the given
// event kind.
func EventDuplicateInc(kind string) {
	eventsDuplicate.WithLabelValues(kind).Inc()
}

// StateFetchFallbackInc increments the enrichment fallback counter.
func StateFetchFallbackInc() {
	stateFetchFallbacks.Inc()
}
