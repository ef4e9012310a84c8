package amadeus

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: operation, status (ok, api_error, timeout, error)
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travel_assistant",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Travel data provider requests by operation and status",
	}, []string{"operation", "status"})

	providerLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "travel_assistant",
		Subsystem: "provider",
		Name:      "latency_seconds",
		Help:      "Travel data provider request latency",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"operation"})
)

func observeRequest(operation string, start time.Time, err error) {
	providerLatencySeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	providerRequestsTotal.WithLabelValues(operation, requestStatus(err)).Inc()
}

func requestStatus(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
