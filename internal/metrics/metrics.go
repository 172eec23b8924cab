// Package metrics exposes the reporting engine's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeForbidden = "forbidden"
)

// Recorder is safe to use as a nil pointer, in which case it records nothing.
type Recorder struct {
	submissions       *prometheus.CounterVec
	reportsCreated    prometheus.Counter
	statusTransitions *prometheus.CounterVec
	mutations         *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_report",
			Name:      "team_submissions_total",
			Help:      "Team submission attempts by outcome.",
		}, []string{"outcome"}),
		reportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_report",
			Name:      "daily_reports_created_total",
			Help:      "Daily reports created by team submission fan-out.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_report",
			Name:      "daily_report_status_transitions_total",
			Help:      "Approval workflow transitions by target status.",
		}, []string{"status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_report",
			Name:      "mutations_total",
			Help:      "Roster, catalog and attendance writes by component and operation.",
		}, []string{"component", "operation"}),
	}
	reg.MustRegister(r.submissions, r.reportsCreated, r.statusTransitions, r.mutations)
	return r
}

func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ReportsCreated(n int) {
	if r == nil {
		return
	}
	r.reportsCreated.Add(float64(n))
}

func (r *Recorder) StatusTransition(status string) {
	if r == nil {
		return
	}
	r.statusTransitions.WithLabelValues(status).Inc()
}

// Mutation counts a successful administrative write.
func (r *Recorder) Mutation(component, operation string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(component, operation).Inc()
}
