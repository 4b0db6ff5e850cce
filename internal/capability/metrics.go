package capability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for authorization decisions.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics registers the capability metrics against the provided registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewdesk_authz_decisions_total",
		Help: "Authorization decisions by capability and outcome.",
	}, []string{"capability", "outcome"})
	registerer.MustRegister(decisions)
	return &Metrics{decisions: decisions}
}

// RecordDecision counts one allow/deny outcome. Safe on a nil receiver so the
// service can run without metrics in tests.
func (m *Metrics) RecordDecision(c Capability, allowed bool) {
	if m == nil {
		return
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.decisions.WithLabelValues(string(c), outcome).Inc()
}
