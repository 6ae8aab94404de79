package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncerCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "cycles_total",
		Help:      "Count of synchronization cycles by outcome.",
	}, []string{"outcome"})

	syncerCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a synchronization cycle.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	syncerStoredHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "stored_height",
		Help:      "Last height written by the syncer.",
	})

	syncerTipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "tip_height",
		Help:      "Last tip height reported by the origin node.",
	})

	syncerPlaceholdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "syncer",
		Name:      "placeholders_total",
		Help:      "Count of transactions stored as placeholders after a failed fetch.",
	})
)

// Syncer tracks metrics for the synchronization engine.
type Syncer struct{}

// NewSyncer constructs a Syncer collector.
func NewSyncer() *Syncer {
	return &Syncer{}
}

// ObserveCycle records the outcome and duration of one cycle.
func (m Syncer) ObserveCycle(outcome string, started time.Time) {
	syncerCyclesTotal.WithLabelValues(outcome).Inc()
	syncerCycleDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveTip records the tip reported by the origin.
func (m Syncer) ObserveTip(tip uint64) {
	syncerTipHeight.Set(float64(tip))
}

// ObserveStored records the last written height.
func (m Syncer) ObserveStored(height uint64) {
	syncerStoredHeight.Set(float64(height))
}

// ObservePlaceholders records placeholders substituted for failed transaction fetches.
func (m Syncer) ObservePlaceholders(n int) {
	if n > 0 {
		syncerPlaceholdersTotal.Add(float64(n))
	}
}
