package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters_Increment(t *testing.T) {
	base := testutil.ToFloat64(riskEvents.WithLabelValues("sms", OutcomeScored))
	EventIngested("sms", OutcomeScored)
	EventIngested("sms", OutcomeScored)
	if got := testutil.ToFloat64(riskEvents.WithLabelValues("sms", OutcomeScored)); got != base+2 {
		t.Fatalf("risk_events_total = %v; want %v", got, base+2)
	}

	baseAlert := testutil.ToFloat64(riskAlerts.WithLabelValues("high_risk"))
	AlertRaised("high_risk")
	if got := testutil.ToFloat64(riskAlerts.WithLabelValues("high_risk")); got != baseAlert+1 {
		t.Fatalf("risk_alerts_total = %v", got)
	}

	baseReset := testutil.ToFloat64(decaySubjects.WithLabelValues(SweepReset))
	DecaySubject(SweepReset)
	if got := testutil.ToFloat64(decaySubjects.WithLabelValues(SweepReset)); got != baseReset+1 {
		t.Fatalf("risk_decay_subjects_total = %v", got)
	}

	baseCheck := testutil.ToFloat64(phoneChecks.WithLabelValues("HIGH"))
	PhoneChecked("HIGH")
	if got := testutil.ToFloat64(phoneChecks.WithLabelValues("HIGH")); got != baseCheck+1 {
		t.Fatalf("phone_checks_total = %v", got)
	}

	baseRep := testutil.ToFloat64(phoneReports.WithLabelValues(ReportRateLimited))
	PhoneReported(ReportRateLimited)
	if got := testutil.ToFloat64(phoneReports.WithLabelValues(ReportRateLimited)); got != baseRep+1 {
		t.Fatalf("phone_reports_total = %v", got)
	}
}

func TestDecaySweep_ObservesHistogram(t *testing.T) {
	before := testutil.CollectAndCount(decayDuration)
	DecaySweep(150 * time.Millisecond)
	if after := testutil.CollectAndCount(decayDuration); after != before || after != 1 {
		t.Fatalf("expected a single histogram series, got %d", after)
	}
}
