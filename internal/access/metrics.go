package access

import "github.com/prometheus/client_golang/prometheus"

// Decision outcomes as recorded in metrics.
const (
	OutcomeAllowed         = "allowed"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeNotFound        = "not_found"
	OutcomeForbidden       = "forbidden"
	OutcomeInvalid         = "invalid"
	OutcomeError           = "error"
)

// Metrics counts access decisions. A nil *Metrics records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics creates the decision counters. Register them with
// Collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "icare_access_decisions_total",
			Help: "access decisions by resource kind, operation and outcome",
		}, []string{"kind", "operation", "outcome"}),
	}
}

// Collectors returns the collectors to register.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.decisions}
}

func (m *Metrics) observe(kind Kind, op Operation, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(kind.Name, string(op), outcome).Inc()
}
