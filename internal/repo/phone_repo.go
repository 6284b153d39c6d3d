// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for phone
// reputation: the aggregate per phone hash, community reports and the
// observed call-pattern summary.
//
// Error semantics:
//   - A second report by the same reporter against the same phone hash trips
//     the (reporter_id, phone_hash) unique index and comes back as ErrDuplicate.
//   - Missing rows come back as ErrNotFound.
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// GetReputation returns the reputation for phoneHash or ErrNotFound.
func GetReputation(ctx context.Context, db *gorm.DB, phoneHash string) (*domain.PhoneReputation, error) {
	var r domain.PhoneReputation
	err := forUpdate(db.WithContext(ctx)).Where("phone_hash = ?", phoneHash).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetOrCreateReputation returns the reputation for phoneHash, inserting seed
// when none exists. The boolean reports whether the row was created.
func GetOrCreateReputation(ctx context.Context, db *gorm.DB, seed *domain.PhoneReputation) (*domain.PhoneReputation, bool, error) {
	r, err := GetReputation(ctx, db, seed.PhoneHash)
	if err == nil {
		return r, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seed)
	if res.Error != nil {
		return nil, false, res.Error
	}
	r, err = GetReputation(ctx, db, seed.PhoneHash)
	return r, res.RowsAffected > 0, err
}

// SaveReputation writes every column of r.
func SaveReputation(ctx context.Context, db *gorm.DB, r *domain.PhoneReputation) error {
	return db.WithContext(ctx).Save(r).Error
}

// HasReport reports whether reporter already filed a report against phoneHash.
func HasReport(ctx context.Context, db *gorm.DB, reporter, phoneHash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.UserReport{}).
		Where("reporter_id = ? AND phone_hash = ?", reporter, phoneHash).
		Count(&n).Error
	return n > 0, err
}

// CountReportsSince returns how many reports reporter filed at or after since.
// A zero since counts every report.
func CountReportsSince(ctx context.Context, db *gorm.DB, reporter string, since time.Time) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.UserReport{}).Where("reporter_id = ?", reporter)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CreateReport inserts r and returns ErrDuplicate on unique violation.
func CreateReport(ctx context.Context, db *gorm.DB, r *domain.UserReport) error {
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListReports returns every report against phoneHash in insertion order.
func ListReports(ctx context.Context, db *gorm.DB, phoneHash string) ([]domain.UserReport, error) {
	var out []domain.UserReport
	err := db.WithContext(ctx).Where("phone_hash = ?", phoneHash).Order("id ASC").Find(&out).Error
	return out, err
}

// GetCallMetadata returns the call-pattern summary for phoneHash or ErrNotFound.
func GetCallMetadata(ctx context.Context, db *gorm.DB, phoneHash string) (*domain.CallMetadata, error) {
	var m domain.CallMetadata
	err := forUpdate(db.WithContext(ctx)).Where("phone_hash = ?", phoneHash).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCallMetadata inserts or updates m.
func SaveCallMetadata(ctx context.Context, db *gorm.DB, m *domain.CallMetadata) error {
	return db.WithContext(ctx).Save(m).Error
}
