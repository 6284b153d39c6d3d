// Package services – RiskService
//
// This file implements RiskService, the owner of the risk ledger and of the
// cached per-subject score. Every mutation (scam or safe event, SOS, resolve,
// decay, rebuild) runs in one GORM transaction: the RiskState row is loaded
// under lock, pending decay is settled, the ledger is written and alerts are
// raised through the AlertSink on the same handle. Nothing is visible until
// the transaction commits.
//
// Observability: all public methods are OpenTelemetry-instrumented and
// committed outcomes are counted in the Prometheus domain collectors.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/observability"
	"github.com/tbourn/go-risk-engine/internal/repo"
	"github.com/tbourn/go-risk-engine/internal/risk"
	"github.com/tbourn/go-risk-engine/internal/utils"
)

const entrySavepoint = "risk_entry"

// Event is one classified threat signal for the generic ingestion path.
type Event struct {
	Subject    string
	Kind       domain.SourceKind
	SourceID   string
	IsScam     bool
	Confidence int
}

// Outcome is the result of a ledger mutation. Alerts lists the alerts raised
// and persisted by the same transaction.
type Outcome struct {
	Entry     *domain.RiskEntry `json:"entry,omitempty"`
	Score     int               `json:"score"`
	Duplicate bool              `json:"duplicate"`
	Alerts    []domain.Alert    `json:"alerts"`
}

// Score is the presented risk of a subject.
type Score struct {
	Score         int        `json:"score"`
	StoredScore   int        `json:"stored_score"`
	Level         string     `json:"level"`
	Details       string     `json:"details"`
	ActiveThreats int64      `json:"active_threats"`
	LastScamAt    *time.Time `json:"last_scam_at"`
	IsVulnerable  bool       `json:"is_vulnerable"`
}

// SweepReport summarises one decay pass.
type SweepReport struct {
	Subjects  int           `json:"subjects"`
	Eroded    int           `json:"eroded"`
	Reset     int           `json:"reset"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// RiskService records threat events and serves decayed scores.
type RiskService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Policy holds the scoring constants.
	Policy risk.Policy
	// Alerts persists raised alerts; nil means DBAlertSink.
	Alerts AlertSink
	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
	// Log receives sweep diagnostics.
	Log zerolog.Logger
}

// NewRiskService constructs a RiskService with the default policy and the
// database alert sink.
func NewRiskService(db *gorm.DB, log zerolog.Logger) *RiskService {
	return &RiskService{
		DB:     db,
		Policy: risk.DefaultPolicy(),
		Alerts: DBAlertSink{},
		Log:    log,
	}
}

func (s *RiskService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *RiskService) sink() AlertSink {
	if s.Alerts != nil {
		return s.Alerts
	}
	return DBAlertSink{}
}

// RecordEvent ingests an sms or call event. Safe events lower the score by
// the safe decrement and create no entry. A scam whose source is already on
// the ledger and not decayed is reported as a duplicate and changes nothing.
func (s *RiskService) RecordEvent(ctx context.Context, ev Event) (*Outcome, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "RecordEvent",
		trace.WithAttributes(
			attribute.String("subject.id", ev.Subject),
			attribute.String("source.kind", string(ev.Kind)),
			attribute.Bool("event.scam", ev.IsScam),
		),
	)
	defer span.End()

	ev.Subject = strings.TrimSpace(ev.Subject)
	ev.SourceID = strings.TrimSpace(ev.SourceID)
	if err := validateEvent(ev); err != nil {
		return nil, err
	}

	var out *Outcome
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.recordTx(ctx, tx, ev, s.now())
		out = o
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	s.observe(ev.Kind, ev.IsScam, out)
	return out, nil
}

func validateEvent(ev Event) error {
	if ev.Subject == "" {
		return ErrEmptySubject
	}
	if ev.Kind != domain.SourceSMS && ev.Kind != domain.SourceCall {
		return ErrInvalidSourceKind
	}
	if ev.Confidence < 0 || ev.Confidence > 100 {
		return ErrInvalidConfidence
	}
	if ev.IsScam && ev.SourceID == "" {
		return ErrEmptySource
	}
	return nil
}

// recordTx is the transactional body of RecordEvent, shared with the
// analysis flows.
func (s *RiskService) recordTx(ctx context.Context, tx *gorm.DB, ev Event, now time.Time) (*Outcome, error) {
	st, err := s.settle(ctx, tx, ev.Subject, now, s.Policy.ReadMinInterval)
	if err != nil {
		return nil, err
	}

	if !ev.IsScam {
		next := s.Policy.SafeEvent(st.CurrentScore)
		if next != st.CurrentScore {
			st.CurrentScore = next
			if err := repo.SaveState(ctx, tx, st); err != nil {
				return nil, err
			}
		}
		return &Outcome{Score: st.CurrentScore, Alerts: []domain.Alert{}}, nil
	}

	if _, err := repo.FindLiveEntry(ctx, tx, ev.Subject, ev.SourceID); err == nil {
		return &Outcome{Score: st.CurrentScore, Duplicate: true, Alerts: []domain.Alert{}}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	prior, err := repo.CountActiveSince(ctx, tx, ev.Subject, now.Add(-s.Policy.SpikeWindow))
	if err != nil {
		return nil, err
	}
	points := s.Policy.Contribution(ev.Kind, ev.Confidence, s.Policy.IsSpike(prior))
	return s.scoreTx(ctx, tx, st, ev.Kind, ev.SourceID, points, now)
}

// scoreTx appends an ACTIVE entry, raises the score and drafts alerts. A
// concurrent writer that won the (subject, dedup_key) race turns this call
// into a duplicate.
func (s *RiskService) scoreTx(ctx context.Context, tx *gorm.DB, st *domain.RiskState, kind domain.SourceKind, sourceID string, points int, now time.Time) (*Outcome, error) {
	key := sourceID
	e := &domain.RiskEntry{
		SubjectID:    st.SubjectID,
		SourceKind:   kind,
		SourceID:     sourceID,
		DedupKey:     &key,
		Contribution: points,
		Status:       domain.StatusActive,
		CreatedAt:    now,
	}

	if err := tx.SavePoint(entrySavepoint).Error; err != nil {
		return nil, err
	}
	if err := repo.CreateEntry(ctx, tx, e); err != nil {
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
		if err := tx.RollbackTo(entrySavepoint).Error; err != nil {
			return nil, err
		}
		return &Outcome{Score: st.CurrentScore, Duplicate: true, Alerts: []domain.Alert{}}, nil
	}

	if st.CurrentScore <= 0 {
		// Nothing was pending, so erosion of the new points starts now.
		st.LastUpdatedAt = now
	}
	st.CurrentScore = risk.Clamp(st.CurrentScore + points)
	st.LastScamAt = &now
	if err := repo.SaveState(ctx, tx, st); err != nil {
		return nil, err
	}

	alerts, err := s.escalate(ctx, tx, st, kind, now)
	if err != nil {
		return nil, err
	}
	return &Outcome{Entry: e, Score: st.CurrentScore, Alerts: alerts}, nil
}

// escalate raises the vulnerability alert for sms and call scams and the
// high-risk alert when the score reached the threshold. An SOS takes the
// high-risk check regardless of score. High-risk alerts are deduplicated by
// unread state.
func (s *RiskService) escalate(ctx context.Context, tx *gorm.DB, st *domain.RiskState, kind domain.SourceKind, now time.Time) ([]domain.Alert, error) {
	alerts := []domain.Alert{}

	if kind != domain.SourceSOS {
		hp, err := repo.GetHealthProfile(ctx, tx, st.SubjectID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if prof := risk.ProfileOf(hp); prof.Vulnerable() {
			a := risk.VulnerableAlert(st.SubjectID, kind, prof, now)
			if err := s.sink().Raise(ctx, tx, &a); err != nil {
				return nil, err
			}
			alerts = append(alerts, a)
		}
	}

	if kind == domain.SourceSOS || st.CurrentScore >= s.Policy.HighRiskThreshold {
		unread, err := s.sink().HasUnread(ctx, tx, st.SubjectID, domain.AlertHighRisk)
		if err != nil {
			return nil, err
		}
		if !unread {
			a := risk.HighRiskAlert(st.SubjectID, st.CurrentScore, now)
			if err := s.sink().Raise(ctx, tx, &a); err != nil {
				return nil, err
			}
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// AddSOSRisk records the fixed-weight SOS contribution for sosID.
func (s *RiskService) AddSOSRisk(ctx context.Context, subject string, sosID uint) (*Outcome, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "AddSOSRisk",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.Int64("sos.id", int64(sosID)),
		),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}

	var out *Outcome
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.sosTx(ctx, tx, subject, sosID, s.now())
		out = o
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add sos risk: %w", err)
	}
	s.observe(domain.SourceSOS, true, out)
	return out, nil
}

// SOSSourceID is the ledger source id of an SOS trigger.
func SOSSourceID(sosID uint) string { return fmt.Sprintf("sos_%d", sosID) }

func (s *RiskService) sosTx(ctx context.Context, tx *gorm.DB, subject string, sosID uint, now time.Time) (*Outcome, error) {
	st, err := s.settle(ctx, tx, subject, now, s.Policy.ReadMinInterval)
	if err != nil {
		return nil, err
	}
	src := SOSSourceID(sosID)
	if _, err := repo.FindLiveEntry(ctx, tx, subject, src); err == nil {
		return &Outcome{Score: st.CurrentScore, Duplicate: true, Alerts: []domain.Alert{}}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return s.scoreTx(ctx, tx, st, domain.SourceSOS, src, s.Policy.Contribution(domain.SourceSOS, 0, false), now)
}

// Resolve dismisses an ACTIVE entry owned by subject and removes exactly its
// contribution from the score. Missing, foreign or inactive entries are a
// silent no-op; the boolean reports whether anything changed.
func (s *RiskService) Resolve(ctx context.Context, subject string, entryID uint) (bool, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "Resolve",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.Int64("entry.id", int64(entryID)),
		),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return false, ErrEmptySubject
	}

	var resolved bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		st, err := s.settle(ctx, tx, subject, now, s.Policy.ReadMinInterval)
		if err != nil {
			return err
		}
		e, err := repo.GetEntry(ctx, tx, subject, entryID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if e.Status != domain.StatusActive {
			return nil
		}
		changed, err := repo.ResolveEntry(ctx, tx, e.ID, now)
		if err != nil || !changed {
			return err
		}
		st.CurrentScore = risk.Clamp(st.CurrentScore - e.Contribution)
		if err := repo.SaveState(ctx, tx, st); err != nil {
			return err
		}
		resolved = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("resolve entry: %w", err)
	}
	return resolved, nil
}

// CurrentScore settles decay on the read interval and returns the presented
// score. A subject without state gets a zero state.
func (s *RiskService) CurrentScore(ctx context.Context, subject string) (*Score, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "CurrentScore",
		trace.WithAttributes(attribute.String("subject.id", subject)),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}

	var out *Score
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := s.settle(ctx, tx, subject, s.now(), s.Policy.ReadMinInterval)
		if err != nil {
			return err
		}
		hp, err := repo.GetHealthProfile(ctx, tx, subject)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		active, err := repo.CountActive(ctx, tx, subject)
		if err != nil {
			return err
		}

		prof := risk.ProfileOf(hp)
		display := risk.DisplayScore(st.CurrentScore, prof)
		out = &Score{
			Score:         display,
			StoredScore:   st.CurrentScore,
			Level:         risk.Level(display),
			Details:       risk.Details(display, active, prof.HasConditions()),
			ActiveThreats: active,
			LastScamAt:    st.LastScamAt,
			IsVulnerable:  prof.HasConditions(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("current score: %w", err)
	}
	return out, nil
}

// settle loads the subject's state under lock, creating it when missing, and
// persists whatever decay is due at now for the given interval.
func (s *RiskService) settle(ctx context.Context, tx *gorm.DB, subject string, now time.Time, minInterval time.Duration) (*domain.RiskState, error) {
	st, err := repo.GetOrCreateState(ctx, tx, subject, now)
	if err != nil {
		return nil, err
	}
	if _, err := s.applyDecay(ctx, tx, st, now, minInterval); err != nil {
		return nil, err
	}
	return st, nil
}

// applyDecay updates st in place. A reset also moves the subject's ACTIVE
// entries to DECAYED.
func (s *RiskService) applyDecay(ctx context.Context, tx *gorm.DB, st *domain.RiskState, now time.Time, minInterval time.Duration) (risk.DecayResult, error) {
	res := s.Policy.Decay(risk.SnapshotOf(st), now, minInterval)
	if res.Reset {
		if _, err := repo.DecayActiveEntries(ctx, tx, st.SubjectID, now); err != nil {
			return res, err
		}
	}
	if res.Changed {
		res.Apply(st)
		if err := repo.SaveState(ctx, tx, st); err != nil {
			return res, err
		}
	}
	return res, nil
}

// DecayAll applies the sweep-interval decay to every subject with a positive
// score or a live entry. Each subject commits on its own; failures are logged,
// counted and never abort the pass. Only a failure to list subjects or a
// cancelled context is returned.
func (s *RiskService) DecayAll(ctx context.Context) (rep SweepReport, err error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "DecayAll")
	defer span.End()

	start := time.Now()
	defer func() {
		rep.Duration = time.Since(start)
		observability.DecaySweep(rep.Duration)
	}()

	ids, err := repo.ListDecayCandidates(ctx, s.DB)
	if err != nil {
		return rep, fmt.Errorf("list decay candidates: %w", err)
	}
	span.SetAttributes(attribute.Int("sweep.subjects", len(ids)))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Subjects++

		before, res, err := s.decaySubject(ctx, id)
		switch {
		case err != nil:
			rep.Failed++
			observability.DecaySubject(observability.SweepFailed)
			s.Log.Warn().Err(err).Str("subject_id", id).Msg("decay failed")
		case res.Reset:
			rep.Reset++
			observability.DecaySubject(observability.SweepReset)
		case res.Score != before:
			rep.Eroded++
			observability.DecaySubject(observability.SweepEroded)
		default:
			rep.Unchanged++
			observability.DecaySubject(observability.SweepUnchanged)
		}
	}

	s.Log.Info().
		Int("subjects", rep.Subjects).
		Int("eroded", rep.Eroded).
		Int("reset", rep.Reset).
		Int("failed", rep.Failed).
		Msg("decay sweep finished")
	return rep, nil
}

func (s *RiskService) decaySubject(ctx context.Context, subject string) (int, risk.DecayResult, error) {
	var (
		before int
		res    risk.DecayResult
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		st, err := repo.GetOrCreateState(ctx, tx, subject, now)
		if err != nil {
			return err
		}
		before = st.CurrentScore
		res, err = s.applyDecay(ctx, tx, st, now, s.Policy.SweepMinInterval)
		return err
	})
	return before, res, err
}

// Rebuild replaces the cached state of subject with a replay of its ACTIVE
// entries and returns the rebuilt score.
func (s *RiskService) Rebuild(ctx context.Context, subject string) (int, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "Rebuild",
		trace.WithAttributes(attribute.String("subject.id", subject)),
	)
	defer span.End()

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return 0, ErrEmptySubject
	}

	var score int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		st, err := repo.GetOrCreateState(ctx, tx, subject, now)
		if err != nil {
			return err
		}
		entries, err := repo.ListActiveEntries(ctx, tx, subject)
		if err != nil {
			return err
		}
		res := s.Policy.Replay(entries, now)

		if res.LastScamAt != nil && (st.LastScamAt == nil || res.LastScamAt.After(*st.LastScamAt)) {
			st.LastScamAt = res.LastScamAt
		}
		if st.LastScamAt != nil && now.Sub(*st.LastScamAt) >= s.Policy.ResetAfter {
			res.Score = 0
			if _, err := repo.DecayActiveEntries(ctx, tx, subject, now); err != nil {
				return err
			}
		}
		st.CurrentScore = res.Score
		st.LastUpdatedAt = now
		score = st.CurrentScore
		return repo.SaveState(ctx, tx, st)
	})
	if err != nil {
		return 0, fmt.Errorf("rebuild: %w", err)
	}
	return score, nil
}

// RebuildAll rebuilds every subject known to the ledger. Per-subject failures
// are logged and counted.
func (s *RiskService) RebuildAll(ctx context.Context) (rebuilt, failed int, err error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "RebuildAll")
	defer span.End()

	ids, err := repo.ListLedgerSubjects(ctx, s.DB)
	if err != nil {
		return 0, 0, fmt.Errorf("list subjects: %w", err)
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rebuilt, failed, err
		}
		if _, err := s.Rebuild(ctx, id); err != nil {
			failed++
			s.Log.Warn().Err(err).Str("subject_id", id).Msg("rebuild failed")
			continue
		}
		rebuilt++
	}
	return rebuilt, failed, nil
}

// ListEntries returns a newest-first page of the subject's ledger, optionally
// filtered by status.
func (s *RiskService) ListEntries(ctx context.Context, subject string, status domain.EntryStatus, page, pageSize int) ([]domain.RiskEntry, int64, error) {
	tr := otel.Tracer("services/RiskService")
	ctx, span := tr.Start(ctx, "ListEntries",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.String("entry.status", string(status)),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if strings.TrimSpace(subject) == "" {
		return nil, 0, ErrEmptySubject
	}
	switch status {
	case "", domain.StatusActive, domain.StatusResolved, domain.StatusDecayed:
	default:
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return repo.ListEntriesPage(ctx, s.DB, subject, status, utils.Page{Number: page, Size: pageSize}.Offset(), pageSize)
}

// EntriesStats returns ledger counters used for conditional GETs.
func (s *RiskService) EntriesStats(ctx context.Context, subject string) (count, active int64, lastChange *time.Time, err error) {
	return repo.LedgerStats(ctx, s.DB, subject)
}

// observe counts a committed outcome.
func (s *RiskService) observe(kind domain.SourceKind, scam bool, o *Outcome) {
	if o == nil {
		return
	}
	switch {
	case !scam:
		observability.EventIngested(string(kind), observability.OutcomeSafe)
	case o.Duplicate:
		observability.EventIngested(string(kind), observability.OutcomeDuplicate)
	default:
		observability.EventIngested(string(kind), observability.OutcomeScored)
	}
	for _, a := range o.Alerts {
		observability.AlertRaised(a.AlertType)
	}
}
