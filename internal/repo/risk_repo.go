// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the risk ledger
// (RiskEntry) and the per-subject aggregate (RiskState).
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving scoring rules to the risk and services packages.
// Functions are safe to call with a transaction-bound handle.
package repo

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// forUpdate adds a row lock on drivers that support SELECT ... FOR UPDATE.
// SQLite serialises writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() != "sqlite" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// GetState loads the RiskState for subject, locking the row when lock is set.
func GetState(ctx context.Context, db *gorm.DB, subject string, lock bool) (*domain.RiskState, error) {
	q := db.WithContext(ctx)
	if lock {
		q = forUpdate(q)
	}
	var st domain.RiskState
	err := q.Where("subject_id = ?", subject).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetOrCreateState returns the locked RiskState for subject, inserting a zero
// state stamped at now when the subject has none yet. Concurrent creators
// converge on the same row.
func GetOrCreateState(ctx context.Context, db *gorm.DB, subject string, now time.Time) (*domain.RiskState, error) {
	st, err := GetState(ctx, db, subject, true)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	fresh := &domain.RiskState{SubjectID: subject, CurrentScore: 0, LastUpdatedAt: now}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, err
	}
	return GetState(ctx, db, subject, true)
}

// SaveState writes every column of st.
func SaveState(ctx context.Context, db *gorm.DB, st *domain.RiskState) error {
	return db.WithContext(ctx).Save(st).Error
}

// ListScoredSubjects returns the ids of subjects whose cached score is positive.
func ListScoredSubjects(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&domain.RiskState{}).
		Where("current_score > 0").
		Order("subject_id ASC").
		Pluck("subject_id", &ids).Error
	return ids, err
}

// ListDecayCandidates returns subjects with a positive score or at least one
// ACTIVE entry, sorted by id.
func ListDecayCandidates(ctx context.Context, db *gorm.DB) ([]string, error) {
	scored, err := ListScoredSubjects(ctx, db)
	if err != nil {
		return nil, err
	}
	var active []string
	if err := db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("status = ?", domain.StatusActive).
		Distinct().Pluck("subject_id", &active).Error; err != nil {
		return nil, err
	}
	return mergeIDs(scored, active), nil
}

// ListLedgerSubjects returns every subject that owns a state row or an entry.
func ListLedgerSubjects(ctx context.Context, db *gorm.DB) ([]string, error) {
	var fromStates, fromEntries []string
	if err := db.WithContext(ctx).Model(&domain.RiskState{}).Pluck("subject_id", &fromStates).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.RiskEntry{}).Distinct().Pluck("subject_id", &fromEntries).Error; err != nil {
		return nil, err
	}
	return mergeIDs(fromStates, fromEntries), nil
}

func mergeIDs(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// FindLiveEntry returns the non-decayed entry for (subject, sourceID), or
// ErrNotFound.
func FindLiveEntry(ctx context.Context, db *gorm.DB, subject, sourceID string) (*domain.RiskEntry, error) {
	var e domain.RiskEntry
	err := db.WithContext(ctx).
		Where("subject_id = ? AND dedup_key = ?", subject, sourceID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry inserts e. A unique violation on (subject_id, dedup_key) comes
// back as ErrDuplicate.
func CreateEntry(ctx context.Context, db *gorm.DB, e *domain.RiskEntry) error {
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetEntry loads entry id owned by subject, or ErrNotFound.
func GetEntry(ctx context.Context, db *gorm.DB, subject string, id uint) (*domain.RiskEntry, error) {
	var e domain.RiskEntry
	err := forUpdate(db.WithContext(ctx)).
		Where("id = ? AND subject_id = ?", id, subject).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ResolveEntry moves an ACTIVE entry to RESOLVED and reports whether a row
// changed. The dedup key is kept so the same source cannot be scored again.
func ResolveEntry(ctx context.Context, db *gorm.DB, id uint, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("id = ? AND status = ?", id, domain.StatusActive).
		Updates(map[string]any{"status": domain.StatusResolved, "resolved_at": now})
	return res.RowsAffected > 0, res.Error
}

// DecayActiveEntries bulk-transitions the subject's ACTIVE entries to DECAYED
// and releases their dedup keys.
func DecayActiveEntries(ctx context.Context, db *gorm.DB, subject string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("subject_id = ? AND status = ?", subject, domain.StatusActive).
		Updates(map[string]any{
			"status":      domain.StatusDecayed,
			"resolved_at": now,
			"dedup_key":   gorm.Expr("NULL"),
		})
	return res.RowsAffected, res.Error
}

// CountActive returns the number of ACTIVE entries for subject.
func CountActive(ctx context.Context, db *gorm.DB, subject string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("subject_id = ? AND status = ?", subject, domain.StatusActive).
		Count(&n).Error
	return n, err
}

// CountActiveSince returns the number of ACTIVE entries created at or after since.
func CountActiveSince(ctx context.Context, db *gorm.DB, subject string, since time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("subject_id = ? AND status = ? AND created_at >= ?", subject, domain.StatusActive, since).
		Count(&n).Error
	return n, err
}

// ListActiveEntries returns the subject's ACTIVE entries in creation order.
func ListActiveEntries(ctx context.Context, db *gorm.DB, subject string) ([]domain.RiskEntry, error) {
	var out []domain.RiskEntry
	err := db.WithContext(ctx).
		Where("subject_id = ? AND status = ?", subject, domain.StatusActive).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListEntriesPage returns a newest-first page of the subject's entries,
// optionally filtered by status, plus the total row count for the filter.
func ListEntriesPage(ctx context.Context, db *gorm.DB, subject string, status domain.EntryStatus, offset, limit int) ([]domain.RiskEntry, int64, error) {
	q := db.WithContext(ctx).Model(&domain.RiskEntry{}).Where("subject_id = ?", subject)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.RiskEntry{}, 0, nil
	}
	var out []domain.RiskEntry
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// EntriesBySource maps source ids to the subject's entries carrying them. When a
// source was scored more than once (after a decay), the newest entry wins.
func EntriesBySource(ctx context.Context, db *gorm.DB, subject string, sourceIDs []string) (map[string]domain.RiskEntry, error) {
	out := make(map[string]domain.RiskEntry, len(sourceIDs))
	if len(sourceIDs) == 0 {
		return out, nil
	}
	var rows []domain.RiskEntry
	err := db.WithContext(ctx).
		Where("subject_id = ? AND source_id IN ?", subject, sourceIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.SourceID] = r
	}
	return out, nil
}
