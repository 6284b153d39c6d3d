package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// CreateAlert inserts a.
func CreateAlert(ctx context.Context, db *gorm.DB, a *domain.Alert) error {
	return db.WithContext(ctx).Create(a).Error
}

// HasUnreadAlert reports whether subject has an unread alert of alertType.
func HasUnreadAlert(ctx context.Context, db *gorm.DB, subject, alertType string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Alert{}).
		Where("subject_id = ? AND alert_type = ? AND is_read = ?", subject, alertType, false).
		Count(&n).Error
	return n > 0, err
}

// ListAlertsPage returns a newest-first page of the subject's alerts and the
// total count.
func ListAlertsPage(ctx context.Context, db *gorm.DB, subject string, offset, limit int) ([]domain.Alert, int64, error) {
	q := db.WithContext(ctx).Model(&domain.Alert{}).Where("subject_id = ?", subject)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Alert{}, 0, nil
	}
	var out []domain.Alert
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// MarkAlertRead flags alert id of subject as read and reports whether a row changed.
func MarkAlertRead(ctx context.Context, db *gorm.DB, subject string, id uint) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.Alert{}).
		Where("id = ? AND subject_id = ? AND is_read = ?", id, subject, false).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}
