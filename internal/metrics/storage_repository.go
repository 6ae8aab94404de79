package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storageRepositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "storage_repository",
		Name:      "operations_total",
		Help:      "Count of storage repository operations.",
	}, []string{"operation", "engine", "status"})
	storageRepositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "storage_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of storage repository operations.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "engine", "status"})
)

// StorageRepository tracks metrics for storage backend operations.
type StorageRepository struct {
	engine string
}

// NewStorageRepository creates a collector labelled with the storage engine name.
func NewStorageRepository(engine string) *StorageRepository {
	return &StorageRepository{engine: labelOrUnknown(engine)}
}

// Observe records duration and status of a repository operation.
func (m StorageRepository) Observe(operation string, err error, started time.Time) {
	s := status(err)
	storageRepositoryOperationsTotal.WithLabelValues(operation, m.engine, s).Inc()
	storageRepositoryOperationDuration.WithLabelValues(operation, m.engine, s).Observe(time.Since(started).Seconds())
}
