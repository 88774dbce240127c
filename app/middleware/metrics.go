package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "staffingcrm"

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latencies in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	quotesPricedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pricing",
			Name:      "quotes_priced_total",
			Help:      "Quotes that completed a pricing run",
		},
		[]string{"currency"},
	)

	pricingRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pricing",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full quote pricing run",
			Buckets:   prometheus.DefBuckets,
		},
	)

	rulesAppliedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pricing",
			Name:      "rules_applied_total",
			Help:      "Pricing rules applied across all pricing runs",
		},
	)

	discountDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pricing",
			Name:      "discount_decisions_total",
			Help:      "Discount requests partitioned by resolution outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// ObserveQuotePriced records one completed pricing run
func ObserveQuotePriced(currency string, duration time.Duration, rulesApplied int) {
	quotesPricedTotal.WithLabelValues(currency).Inc()
	pricingRunDuration.Observe(duration.Seconds())
	rulesAppliedTotal.Add(float64(rulesApplied))
}

// ObserveDiscountDecision records how a discount request resolved
func ObserveDiscountDecision(selfApproved bool) {
	outcome := "routed"
	if selfApproved {
		outcome = "self_approved"
	}
	discountDecisionsTotal.WithLabelValues(outcome).Inc()
}
