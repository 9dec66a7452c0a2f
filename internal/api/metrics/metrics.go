// Package metrics defines and registers all custom Prometheus metrics for
// the HR records API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hr"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts issued credential tokens.
// Label:
//   - role: role snapshotted into the token ("admin", "manager", "staff")
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of credential tokens issued, by role.",
	},
	[]string{"role"},
)

// ── Employee record metrics ───────────────────────────────────────────────────

// DocumentsUploadedTotal counts document writes.
// Label:
//   - kind: "create" (new name) or "replace" (content replacement)
var DocumentsUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of document uploads, by kind.",
	},
	[]string{"kind"},
)

// DocumentApprovalsTotal counts approval decisions.
// Label:
//   - decision: "approved" or "rejected"
var DocumentApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_approvals_total",
		Help:      "Total number of document approval decisions.",
	},
	[]string{"decision"},
)

// ManagerAssignmentsTotal counts manager assignment mutations that passed
// all hierarchy rules.
// Label:
//   - action: "set" or "clear"
var ManagerAssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manager_assignments_total",
		Help:      "Total number of successful manager assignment changes.",
	},
	[]string{"action"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each audit worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts audit events discarded because a worker
// channel was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to full buffers.",
	},
)
