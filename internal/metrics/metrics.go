package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tempo_home_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tempo_home_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	propertyViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tempo_home_property_views_total",
		Help: "Total number of recorded property detail views",
	})

	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tempo_home_messages_sent_total",
		Help: "Total number of contact messages sent",
	})

	cleanupDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tempo_home_cleanup_deleted_views_total",
		Help: "Total number of view events removed by retention cleanup",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObservePropertyView increments the property view counter
func ObservePropertyView() {
	propertyViews.Inc()
}

// ObserveMessageSent increments the sent message counter
func ObserveMessageSent() {
	messagesSent.Inc()
}

// ObserveCleanup adds the number of deleted view events
func ObserveCleanup(deleted int64) {
	if deleted > 0 {
		cleanupDeleted.Add(float64(deleted))
	}
}
