package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-risk-engine/internal/classifier"
	"github.com/tbourn/go-risk-engine/internal/domain"
)

// stubClassifier returns verdicts keyed by text and counts calls.
type stubClassifier struct {
	verdicts map[string]classifier.Verdict
	calls    int
}

func (c *stubClassifier) Classify(text string) classifier.Verdict {
	c.calls++
	if v, ok := c.verdicts[classifier.Normalize(text)]; ok {
		return v
	}
	return classifier.Verdict{IsScam: false, Confidence: 80, Category: "safe", Explanation: "No scam indicators found."}
}

const (
	otpText  = "Your account is blocked. Share OTP 123456 to unblock now"
	loanText = "Pre-approved loan of Rs 5 lakh, pay processing fee today"
)

func newAnalysisService(t *testing.T) (*AnalysisService, *stubClassifier, *testClock) {
	t.Helper()
	rs, clk := newRiskService(t)
	stub := &stubClassifier{verdicts: map[string]classifier.Verdict{
		classifier.Normalize(otpText):  {IsScam: true, Confidence: 90, Category: "otp_scam", Explanation: "Requests a one-time password."},
		classifier.Normalize(loanText): {IsScam: true, Confidence: 60, Category: "loan_scam", Explanation: "Upfront fee for a loan."},
	}}
	return NewAnalysisService(rs, stub), stub, clk
}

func TestAnalyzeSMS_ScamScoresAndAlerts(t *testing.T) {
	s, _, _ := newAnalysisService(t)

	got, err := s.AnalyzeSMS(context.Background(), "u1", otpText)
	if err != nil {
		t.Fatalf("AnalyzeSMS: %v", err)
	}
	if !got.IsScam || got.Confidence != 90 || got.Category != "otp_scam" || got.PreviouslyAnalyzed {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if got.RiskScore != 13 || got.EntryID == nil {
		t.Fatalf("risk linkage: score %d entry %v", got.RiskScore, got.EntryID)
	}
	if len(got.Alerts) != 1 {
		t.Fatalf("alerts = %+v; want one channel alert", got.Alerts)
	}
	a := got.Alerts[0]
	if a.AlertType != domain.AlertSMSScam || a.Severity != domain.SeverityHigh || a.Title != "SMS Scam Detected (otp_scam)" {
		t.Fatalf("channel alert = %+v", a)
	}
}

func TestAnalyzeSMS_RetryReturnsStoredVerdict(t *testing.T) {
	s, stub, clk := newAnalysisService(t)
	ctx := context.Background()

	first, err := s.AnalyzeSMS(ctx, "u1", otpText)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	clk.Advance(72 * time.Hour)
	retry, err := s.AnalyzeSMS(ctx, "u1", "  "+strings.ToUpper(otpText)+"  ")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !retry.PreviouslyAnalyzed || retry.ID != first.ID || retry.Confidence != first.Confidence {
		t.Fatalf("retry = %+v; want the stored verdict", retry)
	}
	if retry.EntryID == nil || *retry.EntryID != *first.EntryID {
		t.Fatalf("retry entry = %v; want %d", retry.EntryID, *first.EntryID)
	}
	if len(retry.Alerts) != 0 {
		t.Fatalf("retry raised alerts: %+v", retry.Alerts)
	}
	if stub.calls != 1 {
		t.Fatalf("classifier calls = %d; want 1", stub.calls)
	}

	var entries, processed int64
	s.Risk.DB.Model(&domain.RiskEntry{}).Count(&entries)
	s.Risk.DB.Model(&domain.ProcessedEvent{}).Count(&processed)
	if entries != 1 || processed != 1 {
		t.Fatalf("entries/processed = %d/%d; want 1/1", entries, processed)
	}

	// Another subject analyzing the same text is scored separately.
	other, err := s.AnalyzeSMS(ctx, "u2", otpText)
	if err != nil || other.PreviouslyAnalyzed || other.RiskScore != 13 {
		t.Fatalf("other subject = %+v, %v", other, err)
	}
}

func TestAnalyzeCall_SeverityAndWeight(t *testing.T) {
	s, _, _ := newAnalysisService(t)
	ctx := context.Background()

	got, err := s.AnalyzeCall(ctx, "u1", otpText)
	if err != nil {
		t.Fatalf("AnalyzeCall: %v", err)
	}
	if got.Kind != string(domain.SourceCall) || got.RiskScore != 18 {
		t.Fatalf("call analysis = %+v", got)
	}
	if a := got.Alerts[0]; a.AlertType != domain.AlertCallFraud || a.Severity != domain.SeverityCritical || a.Title != "Voice Fraud Detected (otp_scam)" {
		t.Fatalf("call alert = %+v", a)
	}

	low, err := s.AnalyzeCall(ctx, "u1", loanText)
	if err != nil {
		t.Fatalf("AnalyzeCall: %v", err)
	}
	if low.Alerts[0].Severity != domain.SeverityHigh {
		t.Fatalf("low-confidence call severity = %s", low.Alerts[0].Severity)
	}
}

func TestAnalyzeCall_SameTextAsEarlierSMSIsScoredAsCall(t *testing.T) {
	s, stub, _ := newAnalysisService(t)
	ctx := context.Background()

	if _, err := s.AnalyzeSMS(ctx, "u1", otpText); err != nil {
		t.Fatalf("AnalyzeSMS: %v", err)
	}
	call, err := s.AnalyzeCall(ctx, "u1", otpText)
	if err != nil {
		t.Fatalf("AnalyzeCall: %v", err)
	}
	if call.PreviouslyAnalyzed || call.Kind != string(domain.SourceCall) {
		t.Fatalf("call returned the sms verdict: %+v", call)
	}
	if call.EntryID == nil || call.RiskScore != 13+18 {
		t.Fatalf("call entry %v score %d; want a new entry and 31", call.EntryID, call.RiskScore)
	}
	if len(call.Alerts) == 0 || call.Alerts[0].AlertType != domain.AlertCallFraud {
		t.Fatalf("call alerts = %+v; want call_fraud first", call.Alerts)
	}
	if stub.calls != 2 {
		t.Fatalf("classifier calls = %d; want 2", stub.calls)
	}

	var calls int64
	s.Risk.DB.Model(&domain.RiskEntry{}).Where("source_kind = ?", domain.SourceCall).Count(&calls)
	if calls != 1 {
		t.Fatalf("call entries = %d; want 1", calls)
	}
}

func TestAnalyzeSMS_SafeMessage(t *testing.T) {
	s, _, _ := newAnalysisService(t)

	got, err := s.AnalyzeSMS(context.Background(), "u1", "See you at lunch tomorrow")
	if err != nil {
		t.Fatalf("AnalyzeSMS: %v", err)
	}
	if got.IsScam || got.EntryID != nil || len(got.Alerts) != 0 || got.RiskScore != 0 {
		t.Fatalf("safe analysis = %+v", got)
	}
	if got.Alerts == nil {
		t.Fatalf("alerts must be an empty slice, not nil")
	}
}

func TestAnalyze_Validation(t *testing.T) {
	s, _, _ := newAnalysisService(t)
	s.MaxTextRunes = 10
	ctx := context.Background()

	if _, err := s.AnalyzeSMS(ctx, " ", "hello"); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("err = %v; want ErrEmptySubject", err)
	}
	if _, err := s.AnalyzeSMS(ctx, "u1", " \n\t"); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v; want ErrEmptyText", err)
	}
	if _, err := s.AnalyzeCall(ctx, "u1", "this transcript is too long"); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("err = %v; want ErrTextTooLong", err)
	}
}

func TestHistory_LinksEntriesAndResolution(t *testing.T) {
	s, _, clk := newAnalysisService(t)
	ctx := context.Background()

	scamA, _ := s.AnalyzeSMS(ctx, "u1", otpText)
	clk.Advance(time.Minute)
	if _, err := s.AnalyzeSMS(ctx, "u1", "Dinner at eight?"); err != nil {
		t.Fatalf("safe: %v", err)
	}
	clk.Advance(time.Minute)
	if _, err := s.AnalyzeCall(ctx, "u1", loanText); err != nil {
		t.Fatalf("call: %v", err)
	}

	if ok, err := s.Risk.Resolve(ctx, "u1", *scamA.EntryID); err != nil || !ok {
		t.Fatalf("Resolve = %v, %v", ok, err)
	}

	items, err := s.History(ctx, "u1", domain.SourceSMS, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("sms history = %d items; want 2", len(items))
	}
	if items[0].IsScam || items[0].EntryID != nil {
		t.Fatalf("newest item should be the safe one: %+v", items[0])
	}
	if items[1].EntryID == nil || *items[1].EntryID != *scamA.EntryID || !items[1].IsResolved {
		t.Fatalf("scam item linkage = %+v", items[1])
	}

	calls, _ := s.History(ctx, "u1", domain.SourceCall, 1)
	if len(calls) != 1 || calls[0].Category != "loan_scam" || calls[0].IsResolved {
		t.Fatalf("call history = %+v", calls)
	}
}

func TestTriggerSOS_LogsAlertsAndScores(t *testing.T) {
	s, _, _ := newAnalysisService(t)
	ctx := context.Background()

	lat, lon := 12.5, 77.25
	res, err := s.TriggerSOS(ctx, "u1", SOSRequest{Latitude: &lat, Longitude: &lon, Message: "Help"})
	if err != nil {
		t.Fatalf("TriggerSOS: %v", err)
	}
	if res.Log.ID == 0 || res.RiskScore != 25 {
		t.Fatalf("sos result = %+v", res)
	}
	if len(res.Alerts) != 2 {
		t.Fatalf("alerts = %+v; want sos and high_risk", res.Alerts)
	}
	sos := res.Alerts[0]
	if sos.AlertType != domain.AlertSOS || sos.Severity != domain.SeverityCritical || sos.Details != "Help at (12.5, 77.25)" {
		t.Fatalf("sos alert = %+v", sos)
	}
	if res.Alerts[1].AlertType != domain.AlertHighRisk {
		t.Fatalf("second alert = %+v", res.Alerts[1])
	}

	plain, err := s.TriggerSOS(ctx, "u1", SOSRequest{})
	if err != nil {
		t.Fatalf("TriggerSOS: %v", err)
	}
	if plain.Log.Message != "Emergency SOS triggered" || plain.Alerts[0].Details != "Emergency SOS triggered" {
		t.Fatalf("default message = %+v", plain.Alerts[0])
	}
	if plain.RiskScore != 50 || len(plain.Alerts) != 1 {
		t.Fatalf("second sos = %+v", plain)
	}
}

func TestTriggerSOS_RejectsBadCoordinates(t *testing.T) {
	s, _, _ := newAnalysisService(t)
	bad := 91.0
	if _, err := s.TriggerSOS(context.Background(), "u1", SOSRequest{Latitude: &bad}); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("err = %v; want ErrInvalidCoordinates", err)
	}
	badLon := -180.5
	if _, err := s.TriggerSOS(context.Background(), "u1", SOSRequest{Longitude: &badLon}); !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("err = %v; want ErrInvalidCoordinates", err)
	}
}
