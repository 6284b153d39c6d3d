// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// LedgerStats returns aggregate metadata for a subject's ledger: the total
// number of entries, the number still ACTIVE and the newest change timestamp
// (created or resolved). When the subject has no entries, all values are zero
// and lastChange is nil.
func LedgerStats(ctx context.Context, db *gorm.DB, subject string) (count, active int64, lastChange *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.RiskEntry{}).Where("subject_id = ?", subject)

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, nil, err
	}
	if count == 0 {
		return 0, 0, nil, nil
	}
	if err = db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("subject_id = ? AND status = ?", subject, domain.StatusActive).
		Count(&active).Error; err != nil {
		return 0, 0, nil, err
	}

	// Latest timestamps (avoid MAX() -> TEXT in SQLite)
	var created struct{ CreatedAt time.Time }
	if err = db.WithContext(ctx).Model(&domain.RiskEntry{}).Where("subject_id = ?", subject).
		Select("created_at").Order("created_at DESC").Limit(1).Scan(&created).Error; err != nil {
		return 0, 0, nil, err
	}
	latest := created.CreatedAt

	var resolved struct{ ResolvedAt *time.Time }
	if err = db.WithContext(ctx).Model(&domain.RiskEntry{}).
		Where("subject_id = ? AND resolved_at IS NOT NULL", subject).
		Select("resolved_at").Order("resolved_at DESC").Limit(1).Scan(&resolved).Error; err != nil {
		return 0, 0, nil, err
	}
	if resolved.ResolvedAt != nil && resolved.ResolvedAt.After(latest) {
		latest = *resolved.ResolvedAt
	}
	return count, active, &latest, nil
}
