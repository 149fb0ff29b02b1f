package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Order engine metrics
var (
	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, labelled by payment method",
		},
		[]string{"method"},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order status transitions applied",
		},
		[]string{"from", "to"},
	)

	WebhookResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_results_total",
			Help: "Payment webhook reconciliation outcomes",
		},
		[]string{"result"},
	)

	SweeperExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweeper_expired_orders_total",
			Help: "Orders expired by the payment-deadline sweeper",
		},
	)

	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notification dispatch failures by kind",
		},
		[]string{"kind"},
	)
)

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
