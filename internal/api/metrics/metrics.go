// Package metrics defines all custom Prometheus metrics for the auth API. It
// is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "invalid" (validation failure), or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid" (bad credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts issued bearer tokens.
// Label:
//   - reason: "register", "login", or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by reason.",
	},
	[]string{"reason"},
)

// TokensRevokedTotal counts bulk revocations (logout and refresh each revoke
// every outstanding token for the user).
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of bulk token revocations performed.",
	},
)

// TokenResolveDuration measures how long resolving a presented token takes,
// from digest lookup to user load.
// Label:
//   - result: "ok" or "unauthorized"
var TokenResolveDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_resolve_duration_seconds",
		Help:      "Duration of bearer token resolution on protected routes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
