// Package metrics defines and registers the custom Prometheus metrics of the
// storefront. It is the single source of truth for metric names, labels and
// help strings; all metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogSnapshotsTotal counts snapshots applied to the product list.
// Label:
//   - source: "subscription" or "refresh"
var CatalogSnapshotsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_snapshots_total",
		Help:      "Total number of product snapshots applied to the in-memory catalog.",
	},
	[]string{"source"},
)

// CatalogProducts tracks the size of the in-memory product list.
var CatalogProducts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_products",
		Help:      "Number of products in the last applied snapshot.",
	},
)

// CatalogSubscriptionErrorsTotal counts subscriptions ended by an error.
var CatalogSubscriptionErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_subscription_errors_total",
		Help:      "Total number of product subscriptions terminated by an error.",
	},
)

// ProductWritesTotal counts admin product writes.
// Labels:
//   - op: "add", "update" or "delete"
//   - result: "ok" or "error"
var ProductWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_writes_total",
		Help:      "Total number of product writes issued to the document store.",
	},
	[]string{"op", "result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// FavoritesRemoteWritesTotal counts best-effort favorites pushes.
// Labels:
//   - kind: "migrate" or "push"
//   - result: "ok" or "error"
var FavoritesRemoteWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_remote_writes_total",
		Help:      "Total number of favorites writes sent to the document store.",
	},
	[]string{"kind", "result"},
)

// FavoritesFallbacksTotal counts logins that fell back to the local cache.
var FavoritesFallbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_fallbacks_total",
		Help:      "Total number of favorites loads that fell back to the local cache.",
	},
)

// CartMutationsTotal counts cart mutations.
// Label:
//   - op: "add", "update", "remove" or "clear"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// LocalCacheErrorsTotal counts local cache failures.
// Label:
//   - reason: "read", "write" or "decode"
var LocalCacheErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "local_cache_errors_total",
		Help:      "Total number of local cache failures, by reason.",
	},
	[]string{"reason"},
)

// NotificationsSuppressedTotal counts notifications dropped by the dedupe window.
var NotificationsSuppressedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_suppressed_total",
		Help:      "Total number of notifications dropped as duplicates.",
	},
)

// ActiveSessions tracks the number of live session scopes.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of session scopes held in memory.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "ok", "not_found", "wrong_password", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RemoteWriteQueueDepth tracks pending jobs in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var RemoteWriteQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "remote_write_queue_depth",
		Help:      "Current number of remote writes pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
