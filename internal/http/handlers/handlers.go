// Package handlers exposes the risk engine over HTTP.
//
// Handlers are transport-thin: they bind and validate input, resolve the
// calling subject, call application services and translate results into HTTP
// responses. Business rules live in the services package; every service error
// is mapped through failService.
//
// The subject is taken from the Gin context key "userID" (set by middleware
// or an upstream auth layer) and otherwise from the X-User-ID header.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/reputation"
	"github.com/tbourn/go-risk-engine/internal/services"
	"github.com/tbourn/go-risk-engine/internal/utils"
)

//
// Service contracts (context-aware)
//

// RiskService exposes the per-subject risk ledger.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RiskService interface {
	// CurrentScore returns the decayed, display-ready score for subject.
	CurrentScore(ctx context.Context, subject string) (*services.Score, error)
	// ListEntries returns a page of ledger entries, optionally filtered by status.
	ListEntries(ctx context.Context, subject string, status domain.EntryStatus, page, pageSize int) ([]domain.RiskEntry, int64, error)
	// EntriesStats returns counters used to build a weak ETag.
	EntriesStats(ctx context.Context, subject string) (count, active int64, lastChange *time.Time, err error)
	// Resolve dismisses an ACTIVE entry. Unknown or foreign ids are a no-op.
	Resolve(ctx context.Context, subject string, entryID uint) (bool, error)
	// Rebuild replays the ledger into the stored score.
	Rebuild(ctx context.Context, subject string) (int, error)
}

// AnalysisService classifies inbound content and raises SOS events.
type AnalysisService interface {
	AnalyzeSMS(ctx context.Context, subject, text string) (*services.Analysis, error)
	AnalyzeCall(ctx context.Context, subject, transcript string) (*services.Analysis, error)
	TriggerSOS(ctx context.Context, subject string, req services.SOSRequest) (*services.SOSResult, error)
	History(ctx context.Context, subject string, kind domain.SourceKind, limit int) ([]services.HistoryItem, error)
}

// PhoneService scores and collects reports on phone hashes.
type PhoneService interface {
	// ResolveHash validates phoneHash, or hashes raw when phoneHash is empty.
	ResolveHash(phoneHash, raw string) (string, error)
	CheckNumber(ctx context.Context, phoneHash string, sig *reputation.CallSignal) (*services.Assessment, error)
	SubmitReport(ctx context.Context, reporter, phoneHash, category, notes string) (*services.ReportResult, error)
	ReportStats(ctx context.Context, reporter string) (*services.ReportStats, error)
	ObserveCall(ctx context.Context, phoneHash string, obs services.CallObservation) (*domain.CallMetadata, error)
}

// AlertService lists and acknowledges alerts.
type AlertService interface {
	List(ctx context.Context, subject string, page, pageSize int) ([]domain.Alert, int64, error)
	MarkRead(ctx context.Context, subject string, id uint) (bool, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	riskSvc     RiskService
	analysisSvc AnalysisService
	phoneSvc    PhoneService
	alertSvc    AlertService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(risk RiskService, analysis AnalysisService, phones PhoneService, alerts AlertService) *Handlers {
	return &Handlers{riskSvc: risk, analysisSvc: analysis, phoneSvc: phones, alertSvc: alerts}
}

// userID extracts the calling subject from the Gin context, falling back to
// the X-User-ID header. It returns "" when neither is present; services
// reject an empty subject with ErrEmptySubject.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return ""
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(p utils.Page, total int64) Pagination {
	pages := p.TotalPages(total)
	return Pagination{
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Number < pages,
	}
}

//
// Helpers
//

// pageParams reads page (default 1) and page_size (default 20, max 100).
func pageParams(c *gin.Context) utils.Page {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"), 20, 100)
}

// pathID parses the ":id" path parameter as a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        System
// @Produce     json
// @Success     200  {object}  map[string]string
// @Router      /health [get]
func Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
