// Package metrics defines the Prometheus metrics of both binaries. All
// metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Client session metrics ────────────────────────────────────────────────────

// RefreshTotal counts refresh-token calls actually sent to the server.
// Label:
//   - result: "success" or "failure"
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "refresh_total",
		Help:      "Refresh-token calls sent to the auth server, by result.",
	},
	[]string{"result"},
)

// RetriesTotal counts one-shot resubmissions after a 401.
// Label:
//   - outcome: "retried", "reused_token" (token already replaced), "abandoned" (refresh failed)
var RetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "unauthorized_recoveries_total",
		Help:      "Handling of protected requests that received 401, by outcome.",
	},
	[]string{"outcome"},
)

// ── Mock API metrics ──────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/patients")
//   - status: HTTP status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "HTTP requests served by the mock API.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests served by the mock API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// TokensIssuedTotal counts token pairs minted by the mock auth service.
// Label:
//   - grant: "login" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "tokens_issued_total",
		Help:      "Token pairs issued by the mock auth service, by grant.",
	},
	[]string{"grant"},
)
