// Package services – PhoneService
//
// This file implements PhoneService, the community phone reputation use-case.
// Phone numbers only ever enter as salted hashes (or are hashed on entry);
// the service combines the stored call pattern with community reports through
// the reputation model and persists the resulting score.
//
// Anti-abuse for reports runs inside the insert transaction: one report per
// reporter per phone hash (also enforced by a unique index), then a rolling
// 24h cap per reporter.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/observability"
	"github.com/tbourn/go-risk-engine/internal/phonehash"
	"github.com/tbourn/go-risk-engine/internal/repo"
	"github.com/tbourn/go-risk-engine/internal/reputation"
)

const (
	defaultReportLimit = 10
	defaultNotesRunes  = 500
	seedConfidence     = 0.5
	scoreChangeMin     = 5
	shortCallSeconds   = 10
	callWindow         = 24 * time.Hour
	reportWindow       = 24 * time.Hour
)

var categoryRE = regexp.MustCompile(`^[a-z][a-z0-9_]{0,49}$`)

var timesOfDay = map[string]bool{"morning": true, "afternoon": true, "evening": true, "night": true}

// Assessment is the answer to a reputation check.
type Assessment struct {
	PhoneHash   string  `json:"phone_hash"`
	RiskScore   int     `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	Category    *string `json:"category"`
	ReportCount int     `json:"report_count"`
	Warning     string  `json:"warning_message"`
	Action      string  `json:"recommended_action"`
	Confidence  float64 `json:"confidence"`
}

// ReportResult is returned for an accepted report.
type ReportResult struct {
	Message          string  `json:"message"`
	UpdatedRiskScore int     `json:"updated_risk_score"`
	TotalReports     int     `json:"total_reports"`
	Category         *string `json:"category"`
}

// ReportStats summarises a reporter's activity.
type ReportStats struct {
	TotalReports int64   `json:"total_reports"`
	ReportsToday int64   `json:"reports_today"`
	TrustScore   float64 `json:"trust_score"`
}

// CallObservation is one observed call from a phone hash.
type CallObservation struct {
	DurationSeconds int    `json:"duration_seconds"`
	IsVoIP          bool   `json:"is_voip"`
	TimeOfDay       string `json:"time_of_day"`
}

// PhoneService scores and collects reports for hashed phone numbers.
type PhoneService struct {
	DB     *gorm.DB
	Hasher *phonehash.Hasher

	// DailyLimit caps reports per reporter per rolling 24h.
	DailyLimit int
	// MaxNotesRunes caps report notes.
	MaxNotesRunes int
	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NewPhoneService constructs a PhoneService.
func NewPhoneService(db *gorm.DB, h *phonehash.Hasher, dailyLimit int) *PhoneService {
	if dailyLimit <= 0 {
		dailyLimit = defaultReportLimit
	}
	return &PhoneService{DB: db, Hasher: h, DailyLimit: dailyLimit, MaxNotesRunes: defaultNotesRunes}
}

func (s *PhoneService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// HashPhone turns a raw number into its reputation key.
func (s *PhoneService) HashPhone(raw string) (string, error) {
	if s.Hasher == nil {
		return "", ErrInvalidPhone
	}
	h, err := s.Hasher.Hash(raw)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return h, nil
}

// ResolveHash validates phoneHash, or hashes raw when no hash was given.
func (s *PhoneService) ResolveHash(phoneHash, raw string) (string, error) {
	phoneHash = strings.TrimSpace(phoneHash)
	if phoneHash == "" && strings.TrimSpace(raw) != "" {
		return s.HashPhone(raw)
	}
	if !phonehash.Valid(phoneHash) {
		return "", ErrInvalidPhoneHash
	}
	return phoneHash, nil
}

// CheckNumber scores phoneHash. Unknown numbers get a fresh reputation row.
// The stored score is only rewritten when it moved by more than five points.
func (s *PhoneService) CheckNumber(ctx context.Context, phoneHash string, sig *reputation.CallSignal) (*Assessment, error) {
	tr := otel.Tracer("services/PhoneService")
	ctx, span := tr.Start(ctx, "CheckNumber",
		trace.WithAttributes(attribute.String("phone.hash", phoneHash)),
	)
	defer span.End()

	if !phonehash.Valid(phoneHash) {
		return nil, ErrInvalidPhoneHash
	}

	var out *Assessment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		rep, _, err := repo.GetOrCreateReputation(ctx, tx, &domain.PhoneReputation{
			PhoneHash:       phoneHash,
			LastUpdatedAt:   now,
			ModelConfidence: seedConfidence,
		})
		if err != nil {
			return err
		}
		score, p, err := s.score(ctx, tx, phoneHash, sig)
		if err != nil {
			return err
		}
		if abs(score-rep.RiskScore) > scoreChangeMin {
			rep.RiskScore = score
			rep.ModelConfidence = p
			rep.LastUpdatedAt = now
			if err := repo.SaveReputation(ctx, tx, rep); err != nil {
				return err
			}
		}
		out = &Assessment{
			PhoneHash:   phoneHash,
			RiskScore:   score,
			RiskLevel:   reputation.Level(score),
			Category:    rep.Category,
			ReportCount: rep.ReportCount,
			Warning:     reputation.Warning(score, rep.Category, rep.ReportCount),
			Action:      reputation.Action(score),
			Confidence:  rep.ModelConfidence,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check number: %w", err)
	}
	observability.PhoneChecked(out.RiskLevel)
	span.SetAttributes(attribute.Int("phone.risk_score", out.RiskScore))
	return out, nil
}

// score runs the hybrid model over what is stored for phoneHash.
func (s *PhoneService) score(ctx context.Context, db *gorm.DB, phoneHash string, sig *reputation.CallSignal) (int, float64, error) {
	meta, err := repo.GetCallMetadata(ctx, db, phoneHash)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return 0, 0, err
	}
	reports, err := repo.ListReports(ctx, db, phoneHash)
	if err != nil {
		return 0, 0, err
	}
	score, p := reputation.HybridScore(reputation.Extract(meta, reports, sig))
	return score, p, nil
}

// SubmitReport files reporter's report against phoneHash and rescores the
// number. Duplicate reports are checked before the daily limit.
func (s *PhoneService) SubmitReport(ctx context.Context, reporter, phoneHash, category, notes string) (*ReportResult, error) {
	tr := otel.Tracer("services/PhoneService")
	ctx, span := tr.Start(ctx, "SubmitReport",
		trace.WithAttributes(
			attribute.String("reporter.id", reporter),
			attribute.String("phone.hash", phoneHash),
			attribute.String("report.category", category),
		),
	)
	defer span.End()

	reporter = strings.TrimSpace(reporter)
	category = strings.ToLower(strings.TrimSpace(category))
	notes = strings.TrimSpace(notes)
	switch {
	case reporter == "":
		return nil, ErrEmptySubject
	case !phonehash.Valid(phoneHash):
		return nil, ErrInvalidPhoneHash
	case !categoryRE.MatchString(category):
		return nil, ErrInvalidCategory
	case s.MaxNotesRunes > 0 && utf8.RuneCountInString(notes) > s.MaxNotesRunes:
		return nil, ErrNotesTooLong
	}
	limit := s.DailyLimit
	if limit <= 0 {
		limit = defaultReportLimit
	}

	var out *ReportResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()

		dup, err := repo.HasReport(ctx, tx, reporter, phoneHash)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateReport
		}
		recent, err := repo.CountReportsSince(ctx, tx, reporter, now.Add(-reportWindow))
		if err != nil {
			return err
		}
		if recent >= int64(limit) {
			return ErrReportRateLimited
		}

		if err := repo.CreateReport(ctx, tx, &domain.UserReport{
			ReporterID: reporter,
			PhoneHash:  phoneHash,
			Category:   category,
			Notes:      notes,
			TrustScore: 1.0,
			CreatedAt:  now,
		}); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateReport
			}
			return err
		}

		rep, _, err := repo.GetOrCreateReputation(ctx, tx, &domain.PhoneReputation{
			PhoneHash:       phoneHash,
			LastUpdatedAt:   now,
			ModelConfidence: seedConfidence,
		})
		if err != nil {
			return err
		}
		reports, err := repo.ListReports(ctx, tx, phoneHash)
		if err != nil {
			return err
		}
		meta, err := repo.GetCallMetadata(ctx, tx, phoneHash)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		winner := reputation.PluralityCategory(reports)
		rep.Category = &winner
		rep.ReportCount = len(reports)
		if rep.FirstReportedAt == nil {
			rep.FirstReportedAt = &now
		}
		rep.RiskScore, rep.ModelConfidence = reputation.HybridScore(reputation.Extract(meta, reports, nil))
		rep.LastUpdatedAt = now
		if err := repo.SaveReputation(ctx, tx, rep); err != nil {
			return err
		}

		out = &ReportResult{
			Message:          "Report submitted successfully. Thank you for helping protect the community!",
			UpdatedRiskScore: rep.RiskScore,
			TotalReports:     rep.ReportCount,
			Category:         rep.Category,
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrDuplicateReport):
		observability.PhoneReported(observability.ReportDuplicate)
		return nil, err
	case errors.Is(err, ErrReportRateLimited):
		observability.PhoneReported(observability.ReportRateLimited)
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("submit report: %w", err)
	}
	observability.PhoneReported(observability.ReportAccepted)
	return out, nil
}

// ReportStats returns the reporter's totals. Every reporter currently has
// full trust.
func (s *PhoneService) ReportStats(ctx context.Context, reporter string) (*ReportStats, error) {
	tr := otel.Tracer("services/PhoneService")
	ctx, span := tr.Start(ctx, "ReportStats",
		trace.WithAttributes(attribute.String("reporter.id", reporter)),
	)
	defer span.End()

	reporter = strings.TrimSpace(reporter)
	if reporter == "" {
		return nil, ErrEmptySubject
	}
	db := s.DB.WithContext(ctx)
	total, err := repo.CountReportsSince(ctx, db, reporter, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("report stats: %w", err)
	}
	today, err := repo.CountReportsSince(ctx, db, reporter, s.now().Add(-reportWindow))
	if err != nil {
		return nil, fmt.Errorf("report stats: %w", err)
	}
	return &ReportStats{TotalReports: total, ReportsToday: today, TrustScore: 1.0}, nil
}

// ObserveCall folds one call into the call-pattern summary of phoneHash.
// The frequency window restarts once it is 24h old.
func (s *PhoneService) ObserveCall(ctx context.Context, phoneHash string, obs CallObservation) (*domain.CallMetadata, error) {
	tr := otel.Tracer("services/PhoneService")
	ctx, span := tr.Start(ctx, "ObserveCall",
		trace.WithAttributes(
			attribute.String("phone.hash", phoneHash),
			attribute.Int("call.duration", obs.DurationSeconds),
		),
	)
	defer span.End()

	if !phonehash.Valid(phoneHash) {
		return nil, ErrInvalidPhoneHash
	}
	obs.TimeOfDay = strings.ToLower(strings.TrimSpace(obs.TimeOfDay))
	if obs.DurationSeconds < 0 || (obs.TimeOfDay != "" && !timesOfDay[obs.TimeOfDay]) {
		return nil, ErrInvalidObservation
	}

	var out *domain.CallMetadata
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		m, err := repo.GetCallMetadata(ctx, tx, phoneHash)
		if errors.Is(err, repo.ErrNotFound) {
			m = &domain.CallMetadata{PhoneHash: phoneHash, WindowStart: now, CreatedAt: now}
		} else if err != nil {
			return err
		}

		if now.Sub(m.WindowStart) >= callWindow {
			m.WindowStart = now
			m.CallFrequency = 0
		}
		m.CallFrequency++
		m.TotalCalls++
		m.AvgDuration += (float64(obs.DurationSeconds) - m.AvgDuration) / float64(m.TotalCalls)
		if obs.DurationSeconds < shortCallSeconds {
			m.ShortCalls++
		}
		m.ShortCallRatio = float64(m.ShortCalls) / float64(m.TotalCalls)
		m.VoIPIndicator = m.VoIPIndicator || obs.IsVoIP
		if obs.TimeOfDay != "" {
			m.TimePattern = obs.TimeOfDay
		}
		m.LastCallAt = now

		if err := repo.SaveCallMetadata(ctx, tx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("observe call: %w", err)
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
