// Package metrics defines and registers all custom Prometheus metrics of the
// bookworm API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookworm"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by result.",
	},
	[]string{"operation", "result"},
)

// AuthRejectionsTotal counts requests turned away by the auth gate.
// Label:
//   - reason: "no_token", "invalid_token", "stale_token"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth gate.",
	},
	[]string{"reason"},
)

// ── Book metrics ──────────────────────────────────────────────────────────────

// BooksCreatedTotal counts successfully created books.
var BooksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books created.",
	},
)

// BooksDeletedTotal counts successfully deleted books.
var BooksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_deleted_total",
		Help:      "Total number of books deleted.",
	},
)

// ── Blob storage metrics ──────────────────────────────────────────────────────

// BlobCleanupTotal counts compensating blob deletions run by the cleanup queue.
// Label:
//   - result: "deleted", "failed" or "dropped" (queue full)
var BlobCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_cleanup_total",
		Help:      "Total number of orphaned blob deletions, by result.",
	},
	[]string{"result"},
)

// BlobCleanupQueueDepth tracks the number of blob ids waiting for deletion.
var BlobCleanupQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "blob_cleanup_queue_depth",
		Help:      "Current number of orphaned blobs waiting for deletion.",
	},
)

// ── Keep-alive metrics ────────────────────────────────────────────────────────

// KeepAlivePingsTotal counts keep-alive requests.
// Label:
//   - result: "ok", "bad_status" or "error"
var KeepAlivePingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keepalive_pings_total",
		Help:      "Total number of keep-alive pings, by result.",
	},
	[]string{"result"},
)
