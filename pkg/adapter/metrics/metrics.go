// Package metrics exposes the prometheus instrumentation of the
// restful layer: a per-request counter and latency histogram plus the
// /metrics scraping route.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "vehweb_"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "Handled HTTP requests",
		},
		[]string{"method", "status"},
	)
	requestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_seconds",
			Help:    "HTTP request handling latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestSeconds)
}

// Measure returns a middleware which counts the handled requests and
// observes their handling latency.
func Measure() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestsTotal.WithLabelValues(
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		requestSeconds.WithLabelValues(
			c.Request.Method,
		).Observe(time.Since(start).Seconds())
	}
}

// Register adds the GET /metrics scraping route.
func Register(r *gin.RouterGroup) {
	r.GET("metrics", gin.WrapH(promhttp.Handler()))
}
