package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// GetHealthProfile returns the subject's profile or ErrNotFound.
func GetHealthProfile(ctx context.Context, db *gorm.DB, subject string) (*domain.HealthProfile, error) {
	var p domain.HealthProfile
	err := db.WithContext(ctx).Where("subject_id = ?", subject).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertHealthProfile inserts or replaces the profile keyed by SubjectID.
func UpsertHealthProfile(ctx context.Context, db *gorm.DB, p *domain.HealthProfile) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"age", "medical_conditions"}),
	}).Create(p).Error
}

// CreateSosLog inserts an SOS trigger record.
func CreateSosLog(ctx context.Context, db *gorm.DB, s *domain.SosLog) error {
	return db.WithContext(ctx).Create(s).Error
}
