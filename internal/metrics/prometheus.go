// Package metrics exposes Prometheus instrumentation for StoragePulse.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagepulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration is the HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storagepulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// DevicesGenerated counts device records served by the mock endpoint.
	DevicesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storagepulse_devices_generated_total",
			Help: "Total number of device records generated by the stub endpoint",
		},
	)

	// PollsTotal counts dashboard fetches by result (ok|error).
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagepulse_polls_total",
			Help: "Total number of dashboard polls",
		},
		[]string{"result"},
	)

	// LastPollTimestamp is the Unix time of the last successful poll.
	LastPollTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storagepulse_last_successful_poll_timestamp_seconds",
			Help: "Unix time of the last successful dashboard poll",
		},
	)

	// DashboardDevices is the device count of the current snapshot.
	DashboardDevices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storagepulse_dashboard_devices",
			Help: "Number of devices in the current dashboard snapshot",
		},
	)
)

// GinMiddleware records request count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
