package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for credential issuance and verification.
type Metrics struct {
	CredentialsIssued   *prometheus.CounterVec
	IssuanceRefused     *prometheus.CounterVec
	Verifications       *prometheus.CounterVec
	VerificationLatency *prometheus.HistogramVec
	BatchSize           prometheus.Histogram
}

// New registers credential collectors on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers credential collectors on reg. Tests pass a
// fresh prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CredentialsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agepass_credentials_issued_total",
			Help: "Total number of credentials issued, labeled by kind",
		}, []string{"kind"}),
		IssuanceRefused: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agepass_issuance_refused_total",
			Help: "Total number of refused issuance requests, labeled by error code",
		}, []string{"reason"}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agepass_verifications_total",
			Help: "Total number of verifications, labeled by kind and outcome",
		}, []string{"kind", "outcome"}),
		VerificationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agepass_verification_latency_seconds",
			Help:    "Latency of credential verification in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"kind"}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agepass_verification_batch_size",
			Help:    "Distribution of batch verification sizes",
			Buckets: []float64{1, 2, 5, 10, 25, 50},
		}),
	}
}

func (m *Metrics) IncrementIssued(kind string) {
	m.CredentialsIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementRefused(reason string) {
	m.IssuanceRefused.WithLabelValues(reason).Inc()
}

// IncrementVerification records a verdict. Outcome is "accepted",
// "expired" or the failure reason.
func (m *Metrics) IncrementVerification(kind, outcome string) {
	m.Verifications.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveVerificationLatency(kind string, durationSeconds float64) {
	m.VerificationLatency.WithLabelValues(kind).Observe(durationSeconds)
}

func (m *Metrics) ObserveBatchSize(size int) {
	m.BatchSize.Observe(float64(size))
}
