package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "user_api_requests_total", Help: "Count of handled requests"},
		[]string{"path", "method", "status"},
	)
	reqLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_api_request_duration_seconds",
			Help:    "Request handling latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
)

func init() { prometheus.MustRegister(reqTotal, reqLatency) }

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		reqLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
