package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

func TestProcessedEvent_GetCreateDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.ProcessedEvent{})
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := GetProcessedEvent(ctx, db, "u1", "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank hash should be ErrNotFound, got %v", err)
	}
	if _, err := GetProcessedEvent(ctx, db, "u1", "h1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rec := &domain.ProcessedEvent{SubjectID: "u1", ContentHash: "h1", Kind: domain.SourceSMS, IsScam: true, Confidence: 72, Category: "financial_scam", CreatedAt: now}
	if err := CreateProcessedEvent(ctx, db, rec); err != nil {
		t.Fatalf("CreateProcessedEvent: %v", err)
	}
	dup := &domain.ProcessedEvent{SubjectID: "u1", ContentHash: "h1", Kind: domain.SourceSMS, CreatedAt: now}
	if err := CreateProcessedEvent(ctx, db, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := GetProcessedEvent(ctx, db, "u1", "h1")
	if err != nil {
		t.Fatalf("GetProcessedEvent: %v", err)
	}
	if !got.IsScam || got.Confidence != 72 || got.Category != "financial_scam" {
		t.Fatalf("unexpected stored verdict: %+v", got)
	}
}

func TestListProcessedEvents_KindAndLimit(t *testing.T) {
	db := newTestDB(t, &domain.ProcessedEvent{})
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, k := range []domain.SourceKind{domain.SourceSMS, domain.SourceCall, domain.SourceSMS, domain.SourceSMS} {
		rec := &domain.ProcessedEvent{SubjectID: "u1", ContentHash: string(rune('a' + i)), Kind: k, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := CreateProcessedEvent(ctx, db, rec); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	sms, err := ListProcessedEvents(ctx, db, "u1", domain.SourceSMS, 2)
	if err != nil {
		t.Fatalf("ListProcessedEvents: %v", err)
	}
	if len(sms) != 2 || sms[0].ContentHash != "d" || sms[1].ContentHash != "c" {
		t.Fatalf("expected newest two sms (d, c), got %+v", sms)
	}
	all, err := ListProcessedEvents(ctx, db, "u1", "", 10)
	if err != nil || len(all) != 4 {
		t.Fatalf("unfiltered = %d, %v", len(all), err)
	}
}
