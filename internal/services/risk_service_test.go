package services

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/repo"
)

// ----- Test helpers -----

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *testClock {
	return &testClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newRiskService(t *testing.T) (*RiskService, *testClock) {
	t.Helper()
	clk := newClock()
	s := NewRiskService(newTestDB(t), zerolog.Nop())
	s.Now = clk.Now
	return s, clk
}

func scam(subject, source string, confidence int) Event {
	return Event{Subject: subject, Kind: domain.SourceSMS, SourceID: source, IsScam: true, Confidence: confidence}
}

func mustRecord(t *testing.T, s *RiskService, ev Event) *Outcome {
	t.Helper()
	out, err := s.RecordEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("RecordEvent(%+v): %v", ev, err)
	}
	return out
}

func stored(t *testing.T, s *RiskService, subject string) *domain.RiskState {
	t.Helper()
	st, err := repo.GetState(context.Background(), s.DB, subject, false)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	return st
}

func countAlerts(t *testing.T, db *gorm.DB, subject, alertType string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.Alert{}).Where("subject_id = ? AND alert_type = ?", subject, alertType).Count(&n).Error; err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	return n
}

// ----- Tests -----

func TestRecordEvent_ScamCreatesEntryAndScore(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	out := mustRecord(t, s, scam("u1", "h1", 90))
	if out.Duplicate || out.Entry == nil {
		t.Fatalf("expected a new entry, got %+v", out)
	}
	if out.Entry.Contribution != 13 || out.Score != 13 {
		t.Fatalf("contribution/score = %d/%d; want 13/13", out.Entry.Contribution, out.Score)
	}
	if out.Entry.Status != domain.StatusActive {
		t.Fatalf("status = %s", out.Entry.Status)
	}

	sc, err := s.CurrentScore(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentScore: %v", err)
	}
	if sc.Score != 13 || sc.Level != "Low" || sc.ActiveThreats != 1 || sc.LastScamAt == nil {
		t.Fatalf("unexpected score: %+v", sc)
	}
	if sc.Details != "1 active threat(s) contributing to risk." {
		t.Fatalf("details = %q", sc.Details)
	}
}

func TestRecordEvent_SameSourceIsIdempotent(t *testing.T) {
	s, _ := newRiskService(t)

	mustRecord(t, s, scam("u1", "h1", 90))
	again := mustRecord(t, s, scam("u1", "h1", 90))
	if !again.Duplicate || again.Entry != nil || again.Score != 13 {
		t.Fatalf("second record should be a duplicate: %+v", again)
	}
	if n, _ := repo.CountActive(context.Background(), s.DB, "u1"); n != 1 {
		t.Fatalf("active entries = %d; want 1", n)
	}
}

func TestRecordEvent_SafeEventOnlyDecrements(t *testing.T) {
	s, _ := newRiskService(t)

	safe := Event{Subject: "u1", Kind: domain.SourceSMS, IsScam: false}
	if out := mustRecord(t, s, safe); out.Score != 0 || out.Entry != nil {
		t.Fatalf("safe event at floor: %+v", out)
	}

	mustRecord(t, s, scam("u1", "h1", 100))
	out := mustRecord(t, s, safe)
	if out.Score != 14 {
		t.Fatalf("score after safe event = %d; want 14", out.Score)
	}
	var entries int64
	s.DB.Model(&domain.RiskEntry{}).Count(&entries)
	if entries != 1 {
		t.Fatalf("safe events must not create entries, have %d", entries)
	}
}

func TestRecordEvent_Validation(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	cases := []struct {
		ev   Event
		want error
	}{
		{Event{Kind: domain.SourceSMS}, ErrEmptySubject},
		{Event{Subject: "u1", Kind: domain.SourceSOS}, ErrInvalidSourceKind},
		{Event{Subject: "u1", Kind: domain.SourceCall, Confidence: 101}, ErrInvalidConfidence},
		{Event{Subject: "u1", Kind: domain.SourceCall, Confidence: -1}, ErrInvalidConfidence},
		{Event{Subject: "u1", Kind: domain.SourceSMS, IsScam: true, SourceID: "  "}, ErrEmptySource},
	}
	for _, c := range cases {
		if _, err := s.RecordEvent(ctx, c.ev); !errors.Is(err, c.want) {
			t.Fatalf("RecordEvent(%+v) err = %v; want %v", c.ev, err, c.want)
		}
	}
}

func TestRecordEvent_CallWeightAndConfidenceFloor(t *testing.T) {
	s, _ := newRiskService(t)
	out := mustRecord(t, s, Event{Subject: "u1", Kind: domain.SourceCall, SourceID: "c1", IsScam: true, Confidence: 10})
	if out.Entry.Contribution != 10 {
		t.Fatalf("call at floor confidence = %d; want 10", out.Entry.Contribution)
	}
}

func TestRecordEvent_SpikeAmplifiesBurst(t *testing.T) {
	burst, clk := newRiskService(t)
	var contribs []int
	for i, src := range []string{"a", "b", "c", "d"} {
		if i > 0 {
			clk.Advance(time.Minute)
		}
		contribs = append(contribs, mustRecord(t, burst, scam("u1", src, 100)).Entry.Contribution)
		if i == 2 {
			// Three entries in the window: none of them was preceded by three.
			if got := stored(t, burst, "u1").CurrentScore; got != 45 {
				t.Fatalf("score after 3 events = %d; want 45", got)
			}
		}
	}
	if contribs[2] != 15 || contribs[3] != 22 {
		t.Fatalf("contributions = %v; want the fourth boosted to 22", contribs)
	}
	burstSum := contribs[0] + contribs[1] + contribs[2] + contribs[3]
	if got := stored(t, burst, "u1").CurrentScore; got != 67 {
		t.Fatalf("burst score = %d; want 67", got)
	}

	spread, clk2 := newRiskService(t)
	var spreadSum int
	for i, src := range []string{"a", "b", "c", "d"} {
		if i > 0 {
			clk2.Advance(24 * time.Hour)
		}
		spreadSum += mustRecord(t, spread, scam("u1", src, 100)).Entry.Contribution
	}
	if spreadSum != 60 {
		t.Fatalf("spread contributions = %d; want 60", spreadSum)
	}
	// Each day erodes the previous event away, so even an unboosted burst ends higher.
	if got := stored(t, spread, "u1").CurrentScore; got != 15 {
		t.Fatalf("spread score = %d; want 15", got)
	}
	if burstSum <= spreadSum {
		t.Fatalf("spike should amplify: burst %d vs spread %d", burstSum, spreadSum)
	}
}

func TestCurrentScore_ResetAfterCleanWeek(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	mustRecord(t, s, scam("u1", "h1", 90))
	mustRecord(t, s, scam("u1", "h2", 90))
	clk.Advance(7*24*time.Hour + time.Hour)

	sc, err := s.CurrentScore(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentScore: %v", err)
	}
	if sc.Score != 0 || sc.Level != "Safe" || sc.ActiveThreats != 0 {
		t.Fatalf("expected full reset, got %+v", sc)
	}
	var decayed int64
	s.DB.Model(&domain.RiskEntry{}).Where("status = ?", domain.StatusDecayed).Count(&decayed)
	if decayed != 2 {
		t.Fatalf("decayed entries = %d; want 2", decayed)
	}

	// The decayed source may be scored again.
	out := mustRecord(t, s, scam("u1", "h1", 90))
	if out.Duplicate || out.Score != 13 {
		t.Fatalf("re-scoring after decay: %+v", out)
	}
}

func TestCurrentScore_LazyErosionAndDisplayBoost(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	age := 70
	if err := repo.UpsertHealthProfile(ctx, s.DB, &domain.HealthProfile{SubjectID: "u1", Age: &age, MedicalConditions: "diabetes"}); err != nil {
		t.Fatalf("profile: %v", err)
	}
	mustRecord(t, s, scam("u1", "h1", 100))
	mustRecord(t, s, scam("u1", "h2", 100))

	clk.Advance(20 * time.Minute)
	sc, _ := s.CurrentScore(ctx, "u1")
	if sc.StoredScore != 30 || sc.Score != 35 {
		t.Fatalf("inside read interval: %+v", sc)
	}
	if !sc.IsVulnerable || sc.Details != "2 active threat(s) contributing to risk. Vulnerable user: enhanced monitoring active." {
		t.Fatalf("vulnerability presentation: %+v", sc)
	}

	clk.Advance(100 * time.Minute) // two hours since the last update
	sc, _ = s.CurrentScore(ctx, "u1")
	if sc.StoredScore != 26 || sc.Score != 31 {
		t.Fatalf("after erosion: %+v", sc)
	}

	// The clock advanced, so an immediate re-read erodes nothing more.
	sc, _ = s.CurrentScore(ctx, "u1")
	if sc.StoredScore != 26 {
		t.Fatalf("double decay: %+v", sc)
	}

	// After the clean week the stored score is 0 but the boost still shows.
	clk.Advance(7 * 24 * time.Hour)
	sc, _ = s.CurrentScore(ctx, "u1")
	if sc.StoredScore != 0 || sc.Score != 5 || sc.Level != "Safe" || sc.ActiveThreats != 0 {
		t.Fatalf("boost at zero: %+v", sc)
	}
	if sc.Details != "Risk score is elevated due to past activity. Vulnerable user: enhanced monitoring active." {
		t.Fatalf("details = %q", sc.Details)
	}
}

func TestRecordEvent_ClockStartsWhenScoreLeavesZero(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	stale := clk.Now().Add(-48 * time.Hour)
	if err := s.DB.Create(&domain.RiskState{SubjectID: "u1", CurrentScore: 0, LastUpdatedAt: stale}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	first := clk.Now()
	mustRecord(t, s, scam("u1", "h1", 100))
	if st := stored(t, s, "u1"); !st.LastUpdatedAt.Equal(first) {
		t.Fatalf("clock = %v; want %v", st.LastUpdatedAt, first)
	}

	// A write on a positive score keeps the last decay tick.
	clk.Advance(10 * time.Minute)
	mustRecord(t, s, scam("u1", "h2", 100))
	if st := stored(t, s, "u1"); st.CurrentScore != 30 || !st.LastUpdatedAt.Equal(first) {
		t.Fatalf("second write moved the clock: %+v", st)
	}

	clk.Advance(35 * time.Minute) // 45 minutes since the first scam
	sc, err := s.CurrentScore(ctx, "u1")
	if err != nil {
		t.Fatalf("CurrentScore: %v", err)
	}
	if sc.StoredScore != 28 { // int(30 - 1.5)
		t.Fatalf("stored = %d; want 28", sc.StoredScore)
	}
}

func TestScoreTx_LostDedupRaceIsDuplicate(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	mustRecord(t, s, scam("u1", "k1", 90))

	// Skip the FindLiveEntry pre-check, as a writer racing the first one would.
	var out *Outcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		st, err := repo.GetOrCreateState(ctx, tx, "u1", s.now())
		if err != nil {
			return err
		}
		out, err = s.scoreTx(ctx, tx, st, domain.SourceSMS, "k1", 13, s.now())
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if !out.Duplicate || out.Entry != nil || out.Score != 13 || len(out.Alerts) != 0 {
		t.Fatalf("expected a duplicate outcome: %+v", out)
	}

	var entries int64
	s.DB.Model(&domain.RiskEntry{}).Where("subject_id = ?", "u1").Count(&entries)
	if entries != 1 {
		t.Fatalf("entries = %d; want 1", entries)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 13 {
		t.Fatalf("score = %d; want 13", got)
	}
}

func TestDecayAll_ErodesOverFiftyHours(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	now := clk.Now()
	if err := s.DB.Create(&domain.RiskState{SubjectID: "u1", CurrentScore: 90, LastScamAt: &now, LastUpdatedAt: now}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.DB.Create(&domain.RiskState{SubjectID: "u2", CurrentScore: 40, LastScamAt: &now, LastUpdatedAt: now}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	clk.Advance(50 * time.Hour)
	rep, err := s.DecayAll(ctx)
	if err != nil {
		t.Fatalf("DecayAll: %v", err)
	}
	if rep.Subjects != 2 || rep.Eroded != 2 || rep.Failed != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 0 {
		t.Fatalf("u1 score = %d; want 0", got)
	}

	// Zero-score subjects are no longer candidates.
	rep, _ = s.DecayAll(ctx)
	if rep.Subjects != 0 {
		t.Fatalf("second sweep subjects = %d", rep.Subjects)
	}
}

func TestDecayAll_IsolatesSubjectFailure(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	now := clk.Now()
	for id, score := range map[string]int{"bad": 50, "u1": 90, "u2": 40} {
		if err := s.DB.Create(&domain.RiskState{SubjectID: id, CurrentScore: score, LastScamAt: &now, LastUpdatedAt: now}).Error; err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	err := s.DB.Callback().Update().Before("gorm:update").Register("test:fail_bad_subject", func(tx *gorm.DB) {
		if st, ok := tx.Statement.Dest.(*domain.RiskState); ok && st.SubjectID == "bad" {
			_ = tx.AddError(errors.New("write refused"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	clk.Advance(2 * time.Hour)
	rep, err := s.DecayAll(ctx)
	if err != nil {
		t.Fatalf("DecayAll: %v", err)
	}
	if rep.Subjects != 3 || rep.Failed != 1 || rep.Eroded != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 86 {
		t.Fatalf("u1 score = %d; want 86", got)
	}
	if got := stored(t, s, "u2").CurrentScore; got != 36 {
		t.Fatalf("u2 score = %d; want 36", got)
	}
	if got := stored(t, s, "bad").CurrentScore; got != 50 {
		t.Fatalf("failed subject was written: %d", got)
	}
}

func TestDecayAll_SweepIntervalAndReset(t *testing.T) {
	s, clk := newRiskService(t)
	ctx := context.Background()

	mustRecord(t, s, scam("u1", "h1", 100))
	clk.Advance(45 * time.Minute)
	rep, _ := s.DecayAll(ctx)
	if rep.Unchanged != 1 || stored(t, s, "u1").CurrentScore != 15 {
		t.Fatalf("sweep inside its interval should not erode: %+v", rep)
	}

	clk.Advance(8 * 24 * time.Hour)
	rep, _ = s.DecayAll(ctx)
	if rep.Reset != 1 {
		t.Fatalf("expected a reset: %+v", rep)
	}
	if n, _ := repo.CountActive(ctx, s.DB, "u1"); n != 0 {
		t.Fatalf("active after reset = %d", n)
	}
}

func TestDecayAll_CancelledContext(t *testing.T) {
	s, _ := newRiskService(t)
	mustRecord(t, s, scam("u1", "h1", 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.DecayAll(ctx); err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}

func TestResolve_RemovesExactContribution(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	first := mustRecord(t, s, scam("u1", "h1", 90))
	mustRecord(t, s, scam("u1", "h2", 100))

	ok, err := s.Resolve(ctx, "u1", first.Entry.ID)
	if err != nil || !ok {
		t.Fatalf("Resolve = %v, %v", ok, err)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 15 {
		t.Fatalf("score after resolve = %d; want 15", got)
	}

	ok, err = s.Resolve(ctx, "u1", first.Entry.ID)
	if err != nil || ok {
		t.Fatalf("second Resolve = %v, %v; want no-op", ok, err)
	}
	ok, err = s.Resolve(ctx, "intruder", first.Entry.ID+1)
	if err != nil || ok {
		t.Fatalf("foreign Resolve = %v, %v; want no-op", ok, err)
	}
	ok, err = s.Resolve(ctx, "u1", 9999)
	if err != nil || ok {
		t.Fatalf("missing Resolve = %v, %v; want no-op", ok, err)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 15 {
		t.Fatalf("no-ops changed the score to %d", got)
	}

	// A resolved source keeps its dedup key.
	if out := mustRecord(t, s, scam("u1", "h1", 90)); !out.Duplicate {
		t.Fatalf("resolved source was scored again: %+v", out)
	}
}

func TestAddSOSRisk_FixedWeightAndHighRiskCheck(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()
	alerts := NewAlertService(s.DB)

	out, err := s.AddSOSRisk(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("AddSOSRisk: %v", err)
	}
	if out.Entry.Contribution != 25 || out.Entry.SourceID != "sos_1" || out.Score != 25 {
		t.Fatalf("unexpected SOS outcome: %+v", out.Entry)
	}
	if len(out.Alerts) != 1 || out.Alerts[0].AlertType != domain.AlertHighRisk {
		t.Fatalf("SOS should raise the high-risk alert: %+v", out.Alerts)
	}

	dup, _ := s.AddSOSRisk(ctx, "u1", 1)
	if !dup.Duplicate || dup.Score != 25 {
		t.Fatalf("same SOS twice: %+v", dup)
	}

	second, _ := s.AddSOSRisk(ctx, "u1", 2)
	if second.Score != 50 || len(second.Alerts) != 0 {
		t.Fatalf("unread high-risk alert should dedup: %+v", second)
	}

	if ok, err := alerts.MarkRead(ctx, "u1", out.Alerts[0].ID); err != nil || !ok {
		t.Fatalf("MarkRead = %v, %v", ok, err)
	}
	third, _ := s.AddSOSRisk(ctx, "u1", 3)
	if third.Score != 75 || len(third.Alerts) != 1 {
		t.Fatalf("reading the alert should re-arm it: %+v", third)
	}
	if n := countAlerts(t, s.DB, "u1", domain.AlertHighRisk); n != 2 {
		t.Fatalf("high_risk alerts = %d; want 2", n)
	}
}

func TestRecordEvent_HighRiskThresholdAndVulnerableAlert(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	age := 72
	if err := repo.UpsertHealthProfile(ctx, s.DB, &domain.HealthProfile{SubjectID: "u1", Age: &age}); err != nil {
		t.Fatalf("profile: %v", err)
	}
	now := s.now()
	if err := s.DB.Create(&domain.RiskState{SubjectID: "u1", CurrentScore: 70, LastScamAt: &now, LastUpdatedAt: now}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	out := mustRecord(t, s, scam("u1", "h1", 100))
	if out.Score != 85 {
		t.Fatalf("score = %d; want 85", out.Score)
	}
	types := map[string]bool{}
	for _, a := range out.Alerts {
		types[a.AlertType] = true
	}
	if !types[domain.AlertVulnerable] || !types[domain.AlertHighRisk] {
		t.Fatalf("expected vulnerable and high-risk alerts, got %+v", out.Alerts)
	}

	next := mustRecord(t, s, scam("u1", "h2", 100))
	if len(next.Alerts) != 1 || next.Alerts[0].AlertType != domain.AlertVulnerable {
		t.Fatalf("second event alerts = %+v", next.Alerts)
	}
	if next.Score != 100 {
		t.Fatalf("score must clamp at 100, got %d", next.Score)
	}
}

func TestRebuild_ReplaysLedger(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	mustRecord(t, s, scam("u1", "h1", 100))
	mustRecord(t, s, scam("u1", "h2", 100))
	if err := s.DB.Model(&domain.RiskState{}).Where("subject_id = ?", "u1").Update("current_score", 99).Error; err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	score, err := s.Rebuild(ctx, "u1")
	if err != nil || score != 30 {
		t.Fatalf("Rebuild = %d, %v; want 30", score, err)
	}
	if got := stored(t, s, "u1").CurrentScore; got != 30 {
		t.Fatalf("stored after rebuild = %d", got)
	}

	rebuilt, failed, err := s.RebuildAll(ctx)
	if err != nil || rebuilt != 1 || failed != 0 {
		t.Fatalf("RebuildAll = %d/%d, %v", rebuilt, failed, err)
	}
}

func TestListEntries_FilterAndValidation(t *testing.T) {
	s, _ := newRiskService(t)
	ctx := context.Background()

	first := mustRecord(t, s, scam("u1", "h1", 90))
	mustRecord(t, s, scam("u1", "h2", 90))
	if _, err := s.Resolve(ctx, "u1", first.Entry.ID); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	items, total, err := s.ListEntries(ctx, "u1", domain.StatusResolved, 1, 10)
	if err != nil || total != 1 || items[0].ID != first.Entry.ID {
		t.Fatalf("ListEntries = %+v, %d, %v", items, total, err)
	}
	if _, _, err := s.ListEntries(ctx, "u1", "BOGUS", 1, 10); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v; want ErrInvalidStatus", err)
	}
	count, active, last, err := s.EntriesStats(ctx, "u1")
	if err != nil || count != 2 || active != 1 || last == nil {
		t.Fatalf("EntriesStats = %d/%d/%v, %v", count, active, last, err)
	}
}
