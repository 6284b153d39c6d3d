package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/repo"
	"github.com/tbourn/go-risk-engine/internal/utils"
)

// AlertService lists and acknowledges a subject's alerts.
type AlertService struct {
	DB *gorm.DB
}

// NewAlertService constructs an AlertService.
func NewAlertService(db *gorm.DB) *AlertService { return &AlertService{DB: db} }

// List returns a newest-first page of alerts and the total count.
func (s *AlertService) List(ctx context.Context, subject string, page, pageSize int) ([]domain.Alert, int64, error) {
	tr := otel.Tracer("services/AlertService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if strings.TrimSpace(subject) == "" {
		return nil, 0, ErrEmptySubject
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	items, total, err := repo.ListAlertsPage(ctx, s.DB, subject, utils.Page{Number: page, Size: pageSize}.Offset(), pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	return items, total, nil
}

// MarkRead acknowledges alert id. Missing, foreign or already read alerts are
// a no-op. Acknowledging a high_risk alert lets the next qualifying event
// raise a new one.
func (s *AlertService) MarkRead(ctx context.Context, subject string, id uint) (bool, error) {
	tr := otel.Tracer("services/AlertService")
	ctx, span := tr.Start(ctx, "MarkRead",
		trace.WithAttributes(
			attribute.String("subject.id", subject),
			attribute.Int64("alert.id", int64(id)),
		),
	)
	defer span.End()

	if strings.TrimSpace(subject) == "" {
		return false, ErrEmptySubject
	}
	changed, err := repo.MarkAlertRead(ctx, s.DB, subject, id)
	if err != nil {
		return false, fmt.Errorf("mark alert read: %w", err)
	}
	return changed, nil
}
