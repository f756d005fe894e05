package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SalesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_sales_total",
			Help: "Sales that reached a terminal outcome",
		},
		[]string{"outcome"},
	)

	SalesAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Sum of finalized sale totals",
		},
	)

	ReservationsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_reservations_expired_total",
			Help: "Reservations released by the expiry sweep",
		},
	)

	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_transactions_total",
			Help: "Unit of work outcomes per use case",
		},
		[]string{"operation", "result"},
	)

	TransactionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_transaction_duration_seconds",
			Help:    "Duration of unit of work executions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Collectors lists every domain metric.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{SalesTotal, SalesAmount, ReservationsExpired, TransactionsTotal, TransactionDuration}
}

// InitMetrics registers the domain and HTTP metrics with the default registry.
func InitMetrics(extra ...prometheus.Collector) {
	prometheus.MustRegister(append(Collectors(), extra...)...)
}
