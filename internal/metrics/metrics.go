package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	// Domain metrics
	TogglesTotal     *prometheus.CounterVec
	ThreadReplies    prometheus.Histogram
	AuthEventsTotal  *prometheus.CounterVec
	MediaUploadBytes *prometheus.HistogramVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_requests",
					Help: "Requests currently being served",
				},
				[]string{"method"},
			),
			TogglesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "social_toggles_total",
					Help: "Toggle mutations by kind and resulting state",
				},
				[]string{"kind", "state"},
			),
			ThreadReplies: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "comment_thread_replies",
					Help:    "Number of replies returned per materialized thread",
					Buckets: prometheus.ExponentialBuckets(1, 4, 7),
				},
			),
			AuthEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "auth_events_total",
					Help: "Authentication events by kind and outcome",
				},
				[]string{"event", "outcome"},
			),
			MediaUploadBytes: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "media_upload_bytes",
					Help:    "Size of stored images in bytes",
					Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
				},
				[]string{"folder"},
			),
		}
	})
	return instance
}

// Get returns the registered metrics, initializing them on first use
func Get() *Metrics {
	return Initialize()
}

// RecordToggle counts a like or save toggle by its resulting state
func RecordToggle(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	Get().TogglesTotal.WithLabelValues(kind, state).Inc()
}

func RecordAuthEvent(event, outcome string) {
	Get().AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}
