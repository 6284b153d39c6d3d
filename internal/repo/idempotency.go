// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for ProcessedEvent,
// the record that makes message analysis safe to retry.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// ErrDuplicate indicates that a row with the same unique key already exists.
var ErrDuplicate = errors.New("duplicate")

// GetProcessedEvent returns the stored verdict for (subject, hash) or ErrNotFound.
func GetProcessedEvent(ctx context.Context, db *gorm.DB, subject, hash string) (*domain.ProcessedEvent, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, ErrNotFound
	}
	var rec domain.ProcessedEvent
	err := db.WithContext(ctx).
		Where("subject_id = ? AND content_hash = ?", subject, hash).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateProcessedEvent inserts rec and returns ErrDuplicate on unique violation.
func CreateProcessedEvent(ctx context.Context, db *gorm.DB, rec *domain.ProcessedEvent) error {
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListProcessedEvents returns the newest processed events of one kind for
// subject, at most limit rows.
func ListProcessedEvents(ctx context.Context, db *gorm.DB, subject string, kind domain.SourceKind, limit int) ([]domain.ProcessedEvent, error) {
	q := db.WithContext(ctx).Where("subject_id = ?", subject)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []domain.ProcessedEvent
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}
