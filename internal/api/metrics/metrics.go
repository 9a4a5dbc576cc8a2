// Package metrics defines and registers all custom Prometheus metrics for the
// clinic API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - outcome: "success", "invalid_credentials", "inactive", "error"
//   - kind: "interactive" or "service"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome", "kind"},
)

// TokenRejectionsTotal counts bearer tokens refused by the auth gate.
// Label:
//   - reason: "missing", "malformed", "expired", "signature_invalid",
//     "revoked", "stale", "user_missing", "inactive"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate.",
	},
	[]string{"reason"},
)

// ForbiddenTotal counts authenticated requests refused by the role gate.
var ForbiddenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forbidden_total",
		Help:      "Total number of requests rejected for insufficient role.",
	},
	[]string{"role"},
)

// ── User administration ──────────────────────────────────────────────────────

// UserOperationsTotal counts successful administrative user operations.
// Label:
//   - operation: "create", "update", "delete", "toggle_status", "profile_update"
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user mutations, by operation.",
	},
	[]string{"operation"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting per worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts audit events that never reached storage.
// Label:
//   - reason: "queue_full", "closed", "write_failed"
var AuditEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped before persistence.",
	},
	[]string{"reason"},
)
