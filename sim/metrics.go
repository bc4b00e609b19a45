package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts selections and outcomes. A nil *Metrics records nothing.
type Metrics struct {
	selections *prometheus.CounterVec
	successes  *prometheus.CounterVec
	runs       *prometheus.CounterVec
	regret     *prometheus.HistogramVec
}

// NewMetrics registers the simulator's collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "banditsim_selections_total",
			Help: "Number of times a policy chose an arm",
		}, []string{"policy", "arm"}),
		successes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "banditsim_successes_total",
			Help: "Number of successful trials per arm",
		}, []string{"policy", "arm"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "banditsim_runs_total",
			Help: "Number of completed runs",
		}, []string{"policy"}),
		regret: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "banditsim_run_regret",
			Help:    "End of run regret",
			Buckets: []float64{-0.05, -0.02, -0.01, -0.005, 0, 0.005, 0.01, 0.02, 0.05},
		}, []string{"policy"}),
	}
}

func (m *Metrics) observeTrial(policy, arm string, success bool) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(policy, arm).Inc()
	if success {
		m.successes.WithLabelValues(policy, arm).Inc()
	}
}

func (m *Metrics) observeRun(policy string, regret float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(policy).Inc()
	m.regret.WithLabelValues(policy).Observe(regret)
}
