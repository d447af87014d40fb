package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconciliationResults counts per-reference outcomes. A rising
	// value_mismatch rate is a fraud or misconfiguration signal.
	ReconciliationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_reconciliation_results_total",
			Help: "Per-reference webhook reconciliation outcomes.",
		},
		[]string{"provider", "action"},
	)

	GatewayVerificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_verification_duration_seconds",
			Help:    "Latency of upstream payment re-verification calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "outcome"},
	)

	// GatewayMissingCharges counts local charges the gateway answered 404
	// for, usually sandbox credentials against production data.
	GatewayMissingCharges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_missing_charges_total",
			Help: "Locally known charges the gateway reported as not found.",
		},
		[]string{"provider"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_notification_failures_total",
			Help: "Confirmation emails that could not be sent.",
		},
		[]string{"kind"},
	)

	ExpiredSubscriptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions flipped to EXPIRED by the sweep.",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests received.",
		},
		[]string{"method", "path", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
