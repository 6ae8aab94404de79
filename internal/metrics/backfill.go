package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backfillFetchMissingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "fetch_missing_total",
		Help:      "Count of attempts to list placeholder transactions.",
	}, []string{"status"})

	backfillFetchMissingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "fetch_missing_duration_seconds",
		Help:      "Duration of listing placeholder transactions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	backfillProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "process_batch_total",
		Help:      "Count of processed placeholder batches.",
	}, []string{"status"})

	backfillProcessBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "process_batch_size",
		Help:      "Number of placeholders processed per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	backfillProcessTransactionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "process_transaction_total",
		Help:      "Count of placeholder re-fetches by outcome.",
	}, []string{"status"})

	backfillProcessTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "transaction_backfill",
		Name:      "process_transaction_duration_seconds",
		Help:      "Duration of re-fetching a single placeholder.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// TransactionBackfill tracks metrics for the placeholder backfill pass.
type TransactionBackfill struct{}

// NewTransactionBackfill constructs a TransactionBackfill collector.
func NewTransactionBackfill() *TransactionBackfill {
	return &TransactionBackfill{}
}

// ObserveFetchMissing records a placeholder listing attempt.
func (m TransactionBackfill) ObserveFetchMissing(err error, started time.Time) {
	s := status(err)
	backfillFetchMissingTotal.WithLabelValues(s).Inc()
	backfillFetchMissingDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records processing of a batch of placeholders.
func (m TransactionBackfill) ObserveProcessBatch(err error, size int, _ time.Time) {
	backfillProcessBatchTotal.WithLabelValues(status(err)).Inc()
	backfillProcessBatchSize.Observe(float64(size))
}

// ObserveProcessTransaction records a single placeholder re-fetch.
func (m TransactionBackfill) ObserveProcessTransaction(err error, started time.Time) {
	s := status(err)
	backfillProcessTransactionTotal.WithLabelValues(s).Inc()
	backfillProcessTransactionDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}
