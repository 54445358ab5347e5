package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeNoop      = "noop"
	outcomeRecovered = "recovered"
	outcomeError     = "error"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_operations_total",
			Help: "Store loads and mutations by store, operation and outcome",
		},
		[]string{"store", "op", "outcome"},
	)

	hydrateDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_hydrate_dropped_total",
			Help: "Wishlist ids dropped during hydration because the catalog lookup failed",
		},
	)
)
