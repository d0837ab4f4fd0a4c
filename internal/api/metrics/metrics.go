// Package metrics defines and registers all custom Prometheus metrics for
// the VDS hosting API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vds_hosting"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration submissions by outcome.
// Labels:
//   - result: "pending_created", "identifier_taken", "invalid", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration submissions, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - result: "success", "invalid_credentials", "not_confirmed", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// VerificationsTotal counts email confirmation attempts.
// Labels:
//   - result: "confirmed", "invalid_token", "expired", "error"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of email verification attempts, by result.",
	},
	[]string{"result"},
)

// AvailabilityChecksTotal counts settled availability lookups.
// Labels:
//   - result: "available", "taken", "degraded"
var AvailabilityChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_checks_total",
		Help:      "Total number of settled username availability checks, by result.",
	},
	[]string{"result"},
)

// PaymentsInitiatedTotal counts opened payment sessions by plan.
var PaymentsInitiatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_initiated_total",
		Help:      "Total number of payment sessions initiated, by plan.",
	},
	[]string{"plan"},
)
