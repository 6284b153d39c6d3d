package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/repo"
)

// AlertSink defines the alert contract required by the scoring services.
// Implementations persist alerts on the handle they are given, which is the
// transaction of the mutation that raised them.
type AlertSink interface {
	// Raise persists a and fills in its ID.
	Raise(ctx context.Context, db *gorm.DB, a *domain.Alert) error

	// HasUnread reports whether subject has an unread alert of alertType.
	HasUnread(ctx context.Context, db *gorm.DB, subject, alertType string) (bool, error)
}

// DBAlertSink stores alerts in the alerts table.
type DBAlertSink struct{}

// Raise implements AlertSink.
func (DBAlertSink) Raise(ctx context.Context, db *gorm.DB, a *domain.Alert) error {
	return repo.CreateAlert(ctx, db, a)
}

// HasUnread implements AlertSink.
func (DBAlertSink) HasUnread(ctx context.Context, db *gorm.DB, subject, alertType string) (bool, error) {
	return repo.HasUnreadAlert(ctx, db, subject, alertType)
}
