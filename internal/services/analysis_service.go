// Package services – AnalysisService
//
// This file implements AnalysisService, which classifies inbound SMS texts
// and call transcripts, records each unique content once per subject and feeds
// scam verdicts into the risk ledger. The ProcessedEvent lookup, its insert,
// the channel alert and the ledger write share one transaction, so a retried
// request either sees the stored verdict or nothing at all.
//
// It also hosts the SOS trigger, which logs the emergency, raises a critical
// alert and adds the fixed SOS contribution atomically.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-risk-engine/internal/classifier"
	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/repo"
)

// Classifier produces scam verdicts for text.
type Classifier interface {
	Classify(text string) classifier.Verdict
}

// Analysis is the result of analyzing one message or transcript.
type Analysis struct {
	ID                 uint           `json:"id"`
	Kind               string         `json:"kind"`
	Message            string         `json:"message"`
	IsScam             bool           `json:"is_scam"`
	Confidence         int            `json:"confidence"`
	Category           string         `json:"category"`
	Explanation        string         `json:"explanation"`
	PreviouslyAnalyzed bool           `json:"previously_analyzed"`
	RiskScore          int            `json:"risk_score"`
	EntryID            *uint          `json:"risk_entry_id,omitempty"`
	Alerts             []domain.Alert `json:"alerts"`
	CreatedAt          time.Time      `json:"created_at"`
}

// HistoryItem is one analyzed message with its ledger linkage.
type HistoryItem struct {
	ID          uint      `json:"id"`
	Message     string    `json:"message"`
	IsScam      bool      `json:"is_scam"`
	Confidence  int       `json:"confidence"`
	Category    string    `json:"category"`
	Explanation string    `json:"explanation"`
	EntryID     *uint     `json:"risk_entry_id,omitempty"`
	IsResolved  bool      `json:"is_resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// SOSRequest carries an emergency trigger.
type SOSRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// SOSResult is the outcome of an SOS trigger.
type SOSResult struct {
	Log       domain.SosLog  `json:"sos"`
	RiskScore int            `json:"risk_score"`
	Alerts    []domain.Alert `json:"alerts"`
}

const defaultSOSMessage = "Emergency SOS triggered"

// AnalysisService coordinates classification, idempotency and scoring.
type AnalysisService struct {
	Risk       *RiskService
	Classifier Classifier

	// MaxTextRunes rejects longer input when positive.
	MaxTextRunes int
	// HistoryLimit caps History when the caller asks for nothing or more.
	HistoryLimit int
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(rs *RiskService, c Classifier) *AnalysisService {
	return &AnalysisService{Risk: rs, Classifier: c, MaxTextRunes: 5000, HistoryLimit: 50}
}

// AnalyzeSMS classifies an SMS for subject.
func (s *AnalysisService) AnalyzeSMS(ctx context.Context, subject, text string) (*Analysis, error) {
	return s.analyze(ctx, subject, text, domain.SourceSMS)
}

// AnalyzeCall classifies a call transcript for subject.
func (s *AnalysisService) AnalyzeCall(ctx context.Context, subject, transcript string) (*Analysis, error) {
	return s.analyze(ctx, subject, transcript, domain.SourceCall)
}

// contentKey fingerprints text within its channel, so a call transcript that
// repeats an earlier SMS word for word is still analyzed and scored as a call.
func contentKey(kind domain.SourceKind, text string) string {
	return classifier.Fingerprint(string(kind) + ":" + text)
}

func (s *AnalysisService) analyze(ctx context.Context, subject, text string, kind domain.SourceKind) (*Analysis, error) {
	tr := otel.Tracer("services/AnalysisService")
	ctx, span := tr.Start(ctx, "Analyze",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.String("source.kind", string(kind)),
		),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(text) > s.MaxTextRunes {
		return nil, ErrTextTooLong
	}

	hash := contentKey(kind, text)
	now := s.Risk.now()

	var (
		out     *Analysis
		outcome *Outcome
	)
	err := s.Risk.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := repo.GetProcessedEvent(ctx, tx, subject, hash)
		if err == nil {
			out, err = s.replay(ctx, tx, prev)
			return err
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		v := s.Classifier.Classify(text)
		rec := &domain.ProcessedEvent{
			SubjectID:   subject,
			ContentHash: hash,
			Kind:        kind,
			Message:     text,
			IsScam:      v.IsScam,
			Confidence:  v.Confidence,
			Category:    v.Category,
			Explanation: v.Explanation,
			CreatedAt:   now,
		}
		if err := repo.CreateProcessedEvent(ctx, tx, rec); err != nil {
			return err
		}

		channel := []domain.Alert{}
		if v.IsScam {
			a := channelAlert(subject, kind, v, now)
			if err := s.Risk.sink().Raise(ctx, tx, &a); err != nil {
				return err
			}
			channel = append(channel, a)
		}

		outcome, err = s.Risk.recordTx(ctx, tx, Event{
			Subject:    subject,
			Kind:       kind,
			SourceID:   hash,
			IsScam:     v.IsScam,
			Confidence: v.Confidence,
		}, now)
		if err != nil {
			return err
		}
		outcome.Alerts = append(channel, outcome.Alerts...)

		out = analysisOf(rec)
		out.RiskScore = outcome.Score
		out.Alerts = outcome.Alerts
		if outcome.Entry != nil {
			out.EntryID = &outcome.Entry.ID
		}
		return nil
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// A concurrent request stored the same content first.
		return s.lookup(ctx, subject, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", kind, err)
	}
	if outcome != nil {
		s.Risk.observe(kind, out.IsScam, outcome)
	}
	return out, nil
}

// replay returns the stored verdict of an already analyzed message.
func (s *AnalysisService) replay(ctx context.Context, db *gorm.DB, rec *domain.ProcessedEvent) (*Analysis, error) {
	out := analysisOf(rec)
	out.PreviouslyAnalyzed = true
	if st, err := repo.GetState(ctx, db, rec.SubjectID, false); err == nil {
		out.RiskScore = st.CurrentScore
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if e, err := repo.FindLiveEntry(ctx, db, rec.SubjectID, rec.ContentHash); err == nil {
		out.EntryID = &e.ID
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return out, nil
}

func (s *AnalysisService) lookup(ctx context.Context, subject, hash string) (*Analysis, error) {
	db := s.Risk.DB.WithContext(ctx)
	rec, err := repo.GetProcessedEvent(ctx, db, subject, hash)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return s.replay(ctx, db, rec)
}

func analysisOf(rec *domain.ProcessedEvent) *Analysis {
	return &Analysis{
		ID:          rec.ID,
		Kind:        string(rec.Kind),
		Message:     rec.Message,
		IsScam:      rec.IsScam,
		Confidence:  rec.Confidence,
		Category:    rec.Category,
		Explanation: rec.Explanation,
		Alerts:      []domain.Alert{},
		CreatedAt:   rec.CreatedAt,
	}
}

// channelAlert drafts the per-channel scam alert.
func channelAlert(subject string, kind domain.SourceKind, v classifier.Verdict, now time.Time) domain.Alert {
	a := domain.Alert{
		SubjectID: subject,
		Details:   v.Explanation,
		CreatedAt: now,
	}
	if kind == domain.SourceCall {
		a.AlertType = domain.AlertCallFraud
		a.Title = fmt.Sprintf("Voice Fraud Detected (%s)", v.Category)
		a.Severity = domain.SeverityHigh
		if v.Confidence >= 70 {
			a.Severity = domain.SeverityCritical
		}
		return a
	}
	a.AlertType = domain.AlertSMSScam
	a.Title = fmt.Sprintf("SMS Scam Detected (%s)", v.Category)
	a.Severity = domain.SeverityMedium
	if v.Confidence >= 70 {
		a.Severity = domain.SeverityHigh
	}
	return a
}

// TriggerSOS logs an emergency for subject, raises the critical sos alert and
// adds the SOS risk contribution in one transaction.
func (s *AnalysisService) TriggerSOS(ctx context.Context, subject string, req SOSRequest) (*SOSResult, error) {
	tr := otel.Tracer("services/AnalysisService")
	ctx, span := tr.Start(ctx, "TriggerSOS",
		trace.WithAttributes(attribute.String("subject.id", subject)),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return nil, ErrInvalidCoordinates
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return nil, ErrInvalidCoordinates
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		msg = defaultSOSMessage
	}

	now := s.Risk.now()
	var (
		out     *SOSResult
		outcome *Outcome
	)
	err := s.Risk.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sos := &domain.SosLog{
			SubjectID: subject,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Message:   msg,
			CreatedAt: now,
		}
		if err := repo.CreateSosLog(ctx, tx, sos); err != nil {
			return err
		}

		details := msg
		if req.Latitude != nil && req.Longitude != nil {
			details += fmt.Sprintf(" at (%g, %g)", *req.Latitude, *req.Longitude)
		}
		a := domain.Alert{
			SubjectID: subject,
			AlertType: domain.AlertSOS,
			Title:     "Emergency SOS",
			Details:   details,
			Severity:  domain.SeverityCritical,
			CreatedAt: now,
		}
		if err := s.Risk.sink().Raise(ctx, tx, &a); err != nil {
			return err
		}

		var err error
		outcome, err = s.Risk.sosTx(ctx, tx, subject, sos.ID, now)
		if err != nil {
			return err
		}
		outcome.Alerts = append([]domain.Alert{a}, outcome.Alerts...)
		out = &SOSResult{Log: *sos, RiskScore: outcome.Score, Alerts: outcome.Alerts}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("trigger sos: %w", err)
	}
	s.Risk.observe(domain.SourceSOS, true, outcome)
	return out, nil
}

// History returns the newest analyzed messages of kind for subject, each
// linked to the ledger entry its content produced.
func (s *AnalysisService) History(ctx context.Context, subject string, kind domain.SourceKind, limit int) ([]HistoryItem, error) {
	tr := otel.Tracer("services/AnalysisService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.String("source.kind", string(kind)),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}
	ceiling := s.HistoryLimit
	if ceiling <= 0 {
		ceiling = 50
	}
	if limit <= 0 || limit > ceiling {
		limit = ceiling
	}

	db := s.Risk.DB.WithContext(ctx)
	recs, err := repo.ListProcessedEvents(ctx, db, subject, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	var hashes []string
	for _, r := range recs {
		if r.IsScam {
			hashes = append(hashes, r.ContentHash)
		}
	}
	entries, err := repo.EntriesBySource(ctx, db, subject, hashes)
	if err != nil {
		return nil, fmt.Errorf("link history: %w", err)
	}

	out := make([]HistoryItem, 0, len(recs))
	for _, r := range recs {
		item := HistoryItem{
			ID:          r.ID,
			Message:     r.Message,
			IsScam:      r.IsScam,
			Confidence:  r.Confidence,
			Category:    r.Category,
			Explanation: r.Explanation,
			CreatedAt:   r.CreatedAt,
		}
		if e, ok := entries[r.ContentHash]; ok && r.IsScam {
			id := e.ID
			item.EntryID = &id
			item.IsResolved = e.Status == domain.StatusResolved
		}
		out = append(out, item)
	}
	return out, nil
}
