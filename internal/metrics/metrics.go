// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optistore",
		Name:      "sales_recorded_total",
		Help:      "Sales persisted.",
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optistore",
		Name:      "notifications_total",
		Help:      "Outbound customer messages by channel and status.",
	}, []string{"channel", "status"})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optistore",
		Name:      "stock_adjustments_total",
		Help:      "Inventory quantity changes by outcome (applied, retried, conflict, rejected).",
	}, []string{"outcome"})

	LowStockEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "optistore",
		Name:      "low_stock_events_total",
		Help:      "Times a lot crossed below its reorder level.",
	})
)
