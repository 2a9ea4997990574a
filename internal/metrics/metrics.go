// Package metrics defines and registers the Prometheus collectors of the
// storefront client core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default registry on import (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── API client ────────────────────────────────────────────────────────────────

// APIRequestsTotal counts outbound API requests.
// Labels:
//   - op: logical operation (e.g. "auth.login", "wishlist.add")
//   - outcome: "ok", "server_error", "network_error", "unauthenticated"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outbound API requests, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// APIRequestDuration measures outbound request latency, including failures.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of outbound API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// UnauthenticatedTotal counts 401 responses that purged the stored token.
var UnauthenticatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthenticated_responses_total",
		Help:      "Total number of 401 responses to authorized requests.",
	},
)

// ── Session ───────────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - from, to: session states ("anonymous", "initializing", "authenticated", "error")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"from", "to"},
)

// StaleResponsesTotal counts responses discarded because the session or
// membership they belonged to had moved on.
var StaleResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_total",
		Help:      "Total number of responses discarded as no longer relevant.",
	},
	[]string{"component"},
)

// ── Local store ───────────────────────────────────────────────────────────────

// StorageFailuresTotal counts persisted-store failures absorbed by the
// store wrapper.
// Labels:
//   - op: "get", "set", "delete", "decode", "encode"
var StorageFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_failures_total",
		Help:      "Total number of absorbed persisted-store failures.",
	},
	[]string{"op"},
)
