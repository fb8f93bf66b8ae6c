// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Coupon transition results.
const (
	ResultActivated        = "activated"
	ResultDeactivated      = "deactivated"
	ResultCapacityExceeded = "capacity_exceeded"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	couponTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "coupon_transitions_total",
		Help:      "Coupon activation and deactivation attempts by result.",
	}, []string{"result"})
)

// RecordCouponTransition counts one coupon status change attempt.
func RecordCouponTransition(result string) {
	couponTransitions.WithLabelValues(result).Inc()
}

// CouponTransitions exposes the transition counter for tests.
func CouponTransitions() *prometheus.CounterVec {
	return couponTransitions
}

// Middleware records request counts and latency, labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
