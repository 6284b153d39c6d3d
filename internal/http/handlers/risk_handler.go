// Risk HTTP handlers.
//
// This file exposes REST endpoints for the subject's risk ledger:
//   - GET  /risk                        (current score)
//   - GET  /risk/entries                (ledger history, paginated, ETag support)
//   - POST /risk/entries/{id}/resolve   (dismiss an active threat)
//   - POST /risk/rebuild                (replay the ledger into the stored score)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// ListEntriesResponse wraps a page of ledger entries and pagination information.
type ListEntriesResponse struct {
	Entries    []domain.RiskEntry `json:"entries"`
	Pagination Pagination         `json:"pagination"`
}

// RebuildResponse reports the score recomputed from the ledger.
type RebuildResponse struct {
	Score int `json:"score" example:"30"`
}

// GetRisk godoc
// @ID          getRisk
// @Summary     Current risk score
// @Description Returns the subject's risk score after applying any pending time decay, with level and a human-readable summary.
// @Tags        Risk
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
//
// @Success     200  {object}  services.Score
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /risk [get]
func (h *Handlers) GetRisk(c *gin.Context) {
	sc, err := h.riskSvc.CurrentScore(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, sc)
}

// ListEntries godoc
// @ID          listRiskEntries
// @Summary     List ledger entries (paginated)
// @Description Returns a newest-first page of the subject's risk entries. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Risk
// @Produce     json
//
// @Param       X-User-ID      header  string  true   "Subject ID"                  example(user123)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       status         query   string  false  "Filter by status"            Enums(ACTIVE, RESOLVED, DECAYED)
// @Param       page           query   int     false  "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListEntriesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /risk/entries [get]
func (h *Handlers) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	pg := pageParams(c)
	status := domain.EntryStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))

	// ETag pre-check (best effort).
	if uid != "" {
		count, active, last, err := h.riskSvc.EntriesStats(ctx, uid)
		if err == nil {
			var ts int64
			if last != nil {
				ts = last.UnixNano()
			}
			etag := fmt.Sprintf(`W/"entries:%s:%d:%d:%d:%s:%d:%d"`, uid, count, active, ts, status, pg.Number, pg.Size)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.riskSvc.ListEntries(ctx, uid, status, pg.Number, pg.Size)
	if err != nil {
		c.Writer.Header().Del("ETag")
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListEntriesResponse{
		Entries:    items,
		Pagination: newPagination(pg, total),
	})
}

// ResolveEntry godoc
// @ID          resolveRiskEntry
// @Summary     Resolve a threat
// @Description Marks an ACTIVE entry as RESOLVED and removes its contribution from the score. Unknown, foreign or already settled entries are accepted as a no-op.
// @Tags        Risk
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
// @Param       id         path    int     true  "Entry ID"    minimum(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /risk/entries/{id}/resolve [post]
func (h *Handlers) ResolveEntry(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "entry id must be a positive integer")
		return
	}
	if _, err := h.riskSvc.Resolve(c.Request.Context(), userID(c), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// Rebuild godoc
// @ID          rebuildRisk
// @Summary     Rebuild score from ledger
// @Description Recomputes the stored score by replaying the subject's ACTIVE entries with decay between events.
// @Tags        Risk
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
//
// @Success     200  {object} handlers.RebuildResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /risk/rebuild [post]
func (h *Handlers) Rebuild(c *gin.Context) {
	score, err := h.riskSvc.Rebuild(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, RebuildResponse{Score: score})
}
