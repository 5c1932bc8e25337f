package request

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer registers the HTTP collectors on reg.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EndpointLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agepass_http_request_duration_seconds",
			Help:    "Latency of HTTP endpoints in seconds, labeled by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveEndpointLatency(route string, status int, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(route, strconv.Itoa(status/100)+"xx").Observe(durationSeconds)
}
