// Package metrics exposes Prometheus collectors for the ordering service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodorder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of orders placed.",
		},
	)

	orderRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "revenue_total",
			Help:      "Sum of order totals at checkout.",
		},
	)

	checkoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "checkout_failures_total",
			Help:      "Checkouts that did not produce an order.",
		},
		[]string{"reason"},
	)

	statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "orders",
			Name:      "status_updates_total",
			Help:      "Order status update attempts by requested status and result.",
		},
		[]string{"status", "result"},
	)

	cartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodorder",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations by action.",
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ordersPlaced,
		orderRevenue,
		checkoutFailures,
		statusUpdates,
		cartOperations,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one request. route should be the mux pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordOrderPlaced(total float64) {
	ordersPlaced.Inc()
	orderRevenue.Add(total)
}

func RecordCheckoutFailure(reason string) {
	checkoutFailures.WithLabelValues(reason).Inc()
}

func RecordStatusUpdate(status string, ok bool) {
	result := "rejected"
	if ok {
		result = "applied"
	}
	statusUpdates.WithLabelValues(status, result).Inc()
}

func RecordCartOperation(action string) {
	cartOperations.WithLabelValues(action).Inc()
}
