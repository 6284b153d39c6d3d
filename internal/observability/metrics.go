package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes on the ingestion path.
const (
	OutcomeScored    = "scored"
	OutcomeDuplicate = "duplicate"
	OutcomeSafe      = "safe"
)

// Report outcomes.
const (
	ReportAccepted    = "accepted"
	ReportDuplicate   = "duplicate"
	ReportRateLimited = "rate_limited"
)

// Sweep results per subject.
const (
	SweepEroded    = "eroded"
	SweepReset     = "reset"
	SweepUnchanged = "unchanged"
	SweepFailed    = "failed"
)

var (
	// riskEvents counts ingested events by source kind and outcome.
	riskEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_events_total",
			Help: "Risk events ingested, by source kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// riskAlerts counts committed alerts by type.
	riskAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_alerts_total",
			Help: "Alerts raised, by alert type.",
		},
		[]string{"type"},
	)

	// decaySubjects counts per-subject sweep results.
	decaySubjects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_decay_subjects_total",
			Help: "Subjects processed by the decay sweep, by result.",
		},
		[]string{"result"},
	)

	// decayDuration records the wall time of whole sweeps.
	decayDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_decay_sweep_duration_seconds",
			Help:    "Duration of decay sweeps in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// phoneChecks counts reputation lookups by resulting level.
	phoneChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phone_checks_total",
			Help: "Phone reputation checks, by risk level.",
		},
		[]string{"level"},
	)

	// phoneReports counts report submissions by outcome.
	phoneReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phone_reports_total",
			Help: "Phone report submissions, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(riskEvents, riskAlerts, decaySubjects, decayDuration, phoneChecks, phoneReports)
}

// EventIngested counts one event.
func EventIngested(kind, outcome string) {
	riskEvents.WithLabelValues(kind, outcome).Inc()
}

// AlertRaised counts one committed alert.
func AlertRaised(alertType string) {
	riskAlerts.WithLabelValues(alertType).Inc()
}

// DecaySubject counts one subject handled by a sweep.
func DecaySubject(result string) {
	decaySubjects.WithLabelValues(result).Inc()
}

// DecaySweep observes the duration of a finished sweep.
func DecaySweep(d time.Duration) {
	decayDuration.Observe(d.Seconds())
}

// PhoneChecked counts one reputation check.
func PhoneChecked(level string) {
	phoneChecks.WithLabelValues(level).Inc()
}

// PhoneReported counts one report submission.
func PhoneReported(outcome string) {
	phoneReports.WithLabelValues(outcome).Inc()
}
