package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for ledger operations.
type Metrics struct {
	// Invocations by ledger function and outcome
	Invocations *prometheus.CounterVec

	// Invocation latency by ledger function
	InvocationLatency *prometheus.HistogramVec

	CertificatesIssued prometheus.Counter

	// Certificates written without the student account being updated
	IncompleteIssuances prometheus.Counter

	EventPublishFailures prometheus.Counter
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_invocations_total",
			Help: "Total ledger function invocations by function and outcome",
		}, []string{"function", "outcome"}),

		InvocationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certledger_invocation_duration_seconds",
			Help:    "Duration of ledger function invocations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"function"}),

		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_certificates_issued_total",
			Help: "Total certificates issued and linked to their student",
		}),

		IncompleteIssuances: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_incomplete_issuances_total",
			Help: "Certificates created whose student account update failed",
		}),

		EventPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_event_publish_failures_total",
			Help: "Ledger events that could not be published",
		}),
	}
}

// ObserveInvocation records the outcome and duration of a ledger function call.
func (m *Metrics) ObserveInvocation(function, outcome string, d time.Duration) {
	if m != nil {
		m.Invocations.WithLabelValues(function, outcome).Inc()
		m.InvocationLatency.WithLabelValues(function).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementCertificatesIssued() {
	if m != nil {
		m.CertificatesIssued.Inc()
	}
}

func (m *Metrics) IncrementIncompleteIssuances() {
	if m != nil {
		m.IncompleteIssuances.Inc()
	}
}

func (m *Metrics) IncrementEventPublishFailures() {
	if m != nil {
		m.EventPublishFailures.Inc()
	}
}
