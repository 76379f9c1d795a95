package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of cart lines added or updated",
	})

	CartAddRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_add_rejected_total",
		Help: "Total number of rejected cart mutations",
	}, []string{"reason"})

	StockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Total number of cart mutations refused for insufficient stock",
	})

	StockDepletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_depleted_total",
		Help: "Total number of products whose stock reached zero",
	})

	CartTxRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_tx_retries_total",
		Help: "Total number of retried cart transaction begins",
	})

	CartMutationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_mutation_latency_seconds",
		Help:    "Latency of the locked cart mutation transaction",
		Buckets: prometheus.DefBuckets,
	})

	PaymentAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Total number of payment submissions",
	})

	PaymentCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_transactions_created_total",
		Help: "Total number of checkout transactions created",
	})

	PaymentDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_duplicate_submissions_total",
		Help: "Total number of payment submissions for carts that already had a transaction",
	})

	PaymentFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_failed_total",
		Help: "Total number of failed payment submissions",
	})

	PaymentQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payment_queue_depth",
		Help: "Number of payment requests waiting in the serialization queue",
	})

	PaymentProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_processing_latency_seconds",
		Help:    "Latency of payment processing including queue wait",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
