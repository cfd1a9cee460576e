// Package metrics holds the storefront's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseshop_webhook_events_total",
		Help: "Payment webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseshop_checkout_sessions_total",
		Help: "Hosted checkout sessions created, by whether the order was new.",
	}, []string{"order"})

	OrdersPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caseshop_orders_paid_total",
		Help: "Orders transitioned to paid.",
	})

	DesignsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseshop_designs_saved_total",
		Help: "Composited designs by outcome.",
	}, []string{"outcome"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caseshop_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records RequestDuration for every routed request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
