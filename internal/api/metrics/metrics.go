// Package metrics defines and registers all custom Prometheus metrics for
// the ticketing API. It is the single source of truth for metric names,
// labels, and help strings. Metrics are registered with the default
// registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticketing"

// ── User directory metrics ────────────────────────────────────────────────────

// UsersCreatedTotal counts successfully created users.
// Label:
//   - role: Admin, Manager, or Employee
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UsersUpdatedTotal counts successful user updates.
var UsersUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_updated_total",
		Help:      "Total number of user updates.",
	},
)

// UsersDeletedTotal counts successful soft deletions.
// Label:
//   - role: role of the deleted user
var UsersDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users soft-deleted, by role.",
	},
	[]string{"role"},
)

// UserDeletionsBlockedTotal counts deletions refused by the eligibility
// policy (outstanding non-completed work).
// Label:
//   - role: role whose check blocked the deletion
var UserDeletionsBlockedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_deletions_blocked_total",
		Help:      "Total number of deletions blocked by the eligibility policy.",
	},
	[]string{"role"},
)

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCompletedTotal counts projects marked Complete by a manager.
var ProjectsCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_completed_total",
		Help:      "Total number of projects marked complete.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsTotal counts audit events drained by the dispatcher workers.
// Labels:
//   - action: user_created, user_updated, user_deleted
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events processed, by action and result.",
	},
	[]string{"action", "result"},
)

// AuditQueueDepth tracks the number of audit events pending in each worker
// channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
