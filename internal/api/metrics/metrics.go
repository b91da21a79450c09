// Package metrics defines and registers all custom Prometheus metrics for
// the banking server. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto;
// the ops HTTP endpoint exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bank"

// RequestsTotal counts dispatched requests.
// Labels:
//   - op: the numeric operation code as a string (e.g. "14")
//   - result: "ok" or "fail"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of protocol requests dispatched, by op and result.",
	},
	[]string{"op", "result"},
)

// ActiveConnections tracks currently open client connections.
var ActiveConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Current number of open client connections.",
	},
)

// ActiveSessions tracks currently authenticated sessions. At most one per
// user id by construction.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of authenticated sessions.",
	},
)

// TransferDuration measures the two-account transfer protocol end-to-end,
// including the audit appends.
var TransferDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transfer_duration_seconds",
		Help:      "Duration of transfer operations from validation to audit append.",
		Buckets:   prometheus.DefBuckets,
	},
)
