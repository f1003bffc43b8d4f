package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerCalls tracks ledger calls per method and outcome
	LedgerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_ledger_calls_total",
			Help: "Total number of ledger calls",
		},
		[]string{"method", "outcome"},
	)

	// LedgerLatency tracks ledger call latency
	LedgerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxoffice_ledger_latency_seconds",
			Help:    "Ledger call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// EventsSubmitted tracks events submitted for moderation
	EventsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxoffice_events_submitted_total",
			Help: "Total number of events submitted for moderation",
		},
	)

	// ModerationDecisions tracks admin decisions per outcome
	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_moderation_decisions_total",
			Help: "Total number of moderation decisions",
		},
		[]string{"decision"},
	)

	// TicketsPurchased tracks successfully minted tickets
	TicketsPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boxoffice_tickets_purchased_total",
			Help: "Total number of tickets purchased",
		},
	)

	// PurchaseFailures tracks failed purchase attempts per failure kind
	PurchaseFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_purchase_failures_total",
			Help: "Total number of failed purchase attempts",
		},
		[]string{"kind"},
	)

	// CatalogCacheHits tracks catalog cache hits and misses
	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_catalog_cache_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)
)
