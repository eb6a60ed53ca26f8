// Package metrics defines and registers all custom Prometheus metrics for
// the signup service. It is the single source of truth for metric names,
// labels, and help strings. Metrics are registered with the default registry
// via promauto at package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signup"

// ── Registration metrics ──────────────────────────────────────────────────────

// RegistrationsCreatedTotal counts successfully persisted signups.
var RegistrationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_created_total",
		Help:      "Total number of registrations successfully persisted.",
	},
)

// RegistrationErrorsTotal counts failed signup attempts.
// Label:
//   - reason: "validation" (rejected input) or "storage" (backend failure)
var RegistrationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_errors_total",
		Help:      "Total number of registration attempts that failed, by reason.",
	},
	[]string{"reason"},
)

// ── Export metrics ────────────────────────────────────────────────────────────

// ExportsGeneratedTotal counts workbook downloads served.
var ExportsGeneratedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_generated_total",
		Help:      "Total number of xlsx exports generated.",
	},
)

// ExportDuration measures end-to-end export time: store read plus workbook
// serialization.
var ExportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Duration of export generation from store read to response bytes.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDeniedTotal counts requests rejected by an authorization check.
// Label:
//   - check: "session" (cookie gate) or "admin_key" (static key)
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests denied, by authorization check.",
	},
	[]string{"check"},
)

// LoginAttemptsTotal counts admin login attempts.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)
