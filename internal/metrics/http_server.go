package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "requests_total",
		Help:      "Count of read API requests.",
	}, []string{"route", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http_api",
		Name:      "request_duration_seconds",
		Help:      "Duration of read API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// HTTPServer tracks metrics for the read API.
type HTTPServer struct{}

// NewHTTPServer constructs an HTTPServer collector.
func NewHTTPServer() *HTTPServer {
	return &HTTPServer{}
}

// Observe records one served request.
func (m HTTPServer) Observe(route string, code int, started time.Time) {
	httpRequestsTotal.WithLabelValues(route, codeLabel(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

func codeLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
