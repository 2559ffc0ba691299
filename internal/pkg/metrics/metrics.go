package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend call outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
)

var (
	// BackendRequests counts calls to the payment backend
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edupayhub",
		Name:      "backend_requests_total",
		Help:      "Requests sent to the payment backend by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// StaleResponses counts transaction fetches discarded by the request token guard
	StaleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edupayhub",
		Name:      "stale_responses_total",
		Help:      "Transaction responses dropped because a newer fetch was issued.",
	})

	// LiveSessions reports sessions held in memory
	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "edupayhub",
		Name:      "live_sessions",
		Help:      "Dashboard sessions currently held in memory.",
	})

	// SessionsSwept counts expired sessions removed by the sweeper
	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edupayhub",
		Name:      "sessions_swept_total",
		Help:      "Expired dashboard sessions removed by the sweeper.",
	})
)
