package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of origin node RPC operations.",
	}, []string{"operation", "node", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of origin node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "node", "status"})
)

// RPCClient tracks metrics for RPC calls to the origin node.
type RPCClient struct {
	node string
}

// NewRPCClient constructs a metrics collector for RPC calls to node.
func NewRPCClient(node string) *RPCClient {
	return &RPCClient{node: labelOrUnknown(node)}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	rpcRequestsTotal.WithLabelValues(operation, m.node, s).Inc()
	rpcRequestDuration.WithLabelValues(operation, m.node, s).Observe(time.Since(started).Seconds())
}
