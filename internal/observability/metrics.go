package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_http_requests_total",
			Help: "Total number of HTTP requests processed by the review service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	cascadeDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_cascade_deletes_total",
			Help: "Total number of cascading deletes by root kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	cascadeRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_cascade_rows_deleted_total",
			Help: "Total number of dependent rows removed by cascading deletes.",
		},
		[]string{"table"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "review_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"kind", "event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "review_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		cascadeDeletesTotal,
		cascadeRowsTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveCascade counts one cascading delete of the given root kind.
func ObserveCascade(kind string, err error) {
	outcome := "committed"
	if err != nil {
		outcome = "rolled_back"
	}
	cascadeDeletesTotal.WithLabelValues(kind, outcome).Inc()
}

func AddCascadedRows(table string, n int64) {
	if n <= 0 {
		return
	}
	cascadeRowsTotal.WithLabelValues(table).Add(float64(n))
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
