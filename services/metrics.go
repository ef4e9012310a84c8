package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: tool, outcome (success, error)
	toolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travel_assistant",
		Name:      "tool_calls_total",
		Help:      "Tool executions by tool and outcome",
	}, []string{"tool", "outcome"})

	// Labels: call (scope, select, followup), status (ok, timeout, error)
	llmRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travel_assistant",
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "LLM chat completion attempts by call and status",
	}, []string{"call", "status"})

	llmLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "travel_assistant",
		Subsystem: "llm",
		Name:      "latency_seconds",
		Help:      "LLM chat completion latency per attempt",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"call"})

	// Labels: result (hit, store, miss)
	locationLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travel_assistant",
		Subsystem: "locations",
		Name:      "lookups_total",
		Help:      "Location resolver lookups by cache result",
	}, []string{"result"})
)

func recordToolCall(tool, outcome string) {
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

func recordLLMAttempt(call, status string, start time.Time) {
	llmLatencySeconds.WithLabelValues(call).Observe(time.Since(start).Seconds())
	llmRequestsTotal.WithLabelValues(call, status).Inc()
}

func recordLocationLookup(result string) {
	locationLookupsTotal.WithLabelValues(result).Inc()
}
