package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condo_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	PaymentReportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condo_payment_reports_submitted_total",
		Help: "Payment reports submitted by owners.",
	})

	PaymentReportsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_payment_reports_resolved_total",
			Help: "Payment reports resolved by outcome.",
		},
		[]string{"status"},
	)

	ReconciliationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_reconciliation_failures_total",
			Help: "Reconciliation attempts that did not commit, by reason.",
		},
		[]string{"reason"},
	)

	AllocatedCents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condo_allocated_cents_total",
		Help: "USD cents applied to ledger entries.",
	})

	LedgerEntriesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condo_ledger_entries_issued_total",
		Help: "Ledger entries created by billing cycles.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "condo_websocket_clients",
		Help: "Connected notification websocket clients.",
	})

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_cache_lookups_total",
			Help: "Cache lookups by result.",
		},
		[]string{"result"},
	)
)
