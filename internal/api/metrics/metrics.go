// Package metrics defines and registers all custom Prometheus metrics for the
// performance management API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "performance"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts bearer-token authentications on protected routes.
// Label:
//   - result: "ok", "malformed", "expired", "revoked", "subject_not_found", "subject_inactive", "error"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// CredentialRehashTotal counts credentials upgraded to the preferred scheme on login.
var CredentialRehashTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_rehash_total",
		Help:      "Total number of stored credentials rehashed with the preferred scheme.",
	},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// AccessDecisionsTotal counts role gate decisions.
// Labels:
//   - gate: "admin-only", "manager-tier", "employee-tier"
//   - decision: "allow" or "deny"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of role gate decisions, by gate and decision.",
	},
	[]string{"gate", "decision"},
)

// OwnershipDenialsTotal counts requests rejected because the target was not
// one of the caller's direct reports.
var OwnershipDenialsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of requests denied by the ownership check.",
	},
)

// ── Audit pipeline ───────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by what happened to them.
// Label:
//   - result: "written", "dropped", "failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by delivery result.",
	},
	[]string{"result"},
)

// ── Domain metrics ───────────────────────────────────────────────────────────

// KPIEvaluationsTotal counts KPI evaluations.
// Label:
//   - status: "Achieved" or "Not Achieved"
var KPIEvaluationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "kpi_evaluations_total",
		Help:      "Total number of KPI evaluations, by resulting status.",
	},
	[]string{"status"},
)

// FeedbackSubmissionsTotal counts feedback submissions.
// Label:
//   - result: "accepted", "abusive", "invalid"
var FeedbackSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Total number of feedback submissions, by result.",
	},
	[]string{"result"},
)
