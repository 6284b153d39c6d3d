package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

func TestGetOrCreateReputation(t *testing.T) {
	db := newTestDB(t, &domain.PhoneReputation{})
	ctx := context.Background()
	now := time.Now().UTC()

	seed := &domain.PhoneReputation{PhoneHash: "p1", LastUpdatedAt: now, ModelConfidence: 0.5}
	r, created, err := GetOrCreateReputation(ctx, db, seed)
	if err != nil || !created {
		t.Fatalf("first GetOrCreateReputation = %v, %v", created, err)
	}
	if r.ModelConfidence != 0.5 || r.ReportCount != 0 {
		t.Fatalf("unexpected seed row: %+v", r)
	}

	r.RiskScore = 44
	if err := SaveReputation(ctx, db, r); err != nil {
		t.Fatalf("SaveReputation: %v", err)
	}
	again, created, err := GetOrCreateReputation(ctx, db, &domain.PhoneReputation{PhoneHash: "p1", LastUpdatedAt: now})
	if err != nil || created {
		t.Fatalf("second GetOrCreateReputation = %v, %v", created, err)
	}
	if again.RiskScore != 44 {
		t.Fatalf("expected persisted score 44, got %d", again.RiskScore)
	}
}

func TestReports_DuplicateCountAndOrder(t *testing.T) {
	db := newTestDB(t, &domain.UserReport{})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mk := func(reporter, phone, cat string, at time.Time) *domain.UserReport {
		return &domain.UserReport{ReporterID: reporter, PhoneHash: phone, Category: cat, TrustScore: 1, CreatedAt: at}
	}
	if err := CreateReport(ctx, db, mk("u1", "p1", "loan_scam", now.Add(-48*time.Hour))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := CreateReport(ctx, db, mk("u1", "p2", "bank_fraud", now.Add(-time.Hour))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := CreateReport(ctx, db, mk("u2", "p1", "otp_scam", now)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := CreateReport(ctx, db, mk("u1", "p1", "otp_scam", now)); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if ok, err := HasReport(ctx, db, "u1", "p1"); err != nil || !ok {
		t.Fatalf("HasReport(u1,p1) = %v, %v", ok, err)
	}
	if ok, err := HasReport(ctx, db, "u2", "p2"); err != nil || ok {
		t.Fatalf("HasReport(u2,p2) = %v, %v", ok, err)
	}

	day, err := CountReportsSince(ctx, db, "u1", now.Add(-24*time.Hour))
	if err != nil || day != 1 {
		t.Fatalf("CountReportsSince(24h) = %d, %v; want 1", day, err)
	}
	total, err := CountReportsSince(ctx, db, "u1", time.Time{})
	if err != nil || total != 2 {
		t.Fatalf("CountReportsSince(all) = %d, %v; want 2", total, err)
	}

	list, err := ListReports(ctx, db, "p1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListReports = %d, %v", len(list), err)
	}
	if list[0].Category != "loan_scam" || list[1].Category != "otp_scam" {
		t.Fatalf("expected insertion order, got %s, %s", list[0].Category, list[1].Category)
	}
}

func TestCallMetadata_SaveAndGet(t *testing.T) {
	db := newTestDB(t, &domain.CallMetadata{})
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := GetCallMetadata(ctx, db, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	m := &domain.CallMetadata{PhoneHash: "p1", CallFrequency: 1, WindowStart: now, TotalCalls: 1, AvgDuration: 30, CreatedAt: now, LastCallAt: now}
	if err := SaveCallMetadata(ctx, db, m); err != nil {
		t.Fatalf("SaveCallMetadata insert: %v", err)
	}
	m.CallFrequency = 3
	if err := SaveCallMetadata(ctx, db, m); err != nil {
		t.Fatalf("SaveCallMetadata update: %v", err)
	}
	got, err := GetCallMetadata(ctx, db, "p1")
	if err != nil || got.CallFrequency != 3 {
		t.Fatalf("GetCallMetadata = %+v, %v", got, err)
	}
}
