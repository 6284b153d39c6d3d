// Alert HTTP handlers.
//
//   - GET  /alerts             (paginated, newest first)
//   - POST /alerts/{id}/read   (acknowledge)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// ListAlertsResponse wraps a page of alerts and pagination information.
type ListAlertsResponse struct {
	Alerts     []domain.Alert `json:"alerts"`
	Pagination Pagination     `json:"pagination"`
}

// ListAlerts godoc
// @ID          listAlerts
// @Summary     List alerts (paginated)
// @Tags        Alerts
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Subject ID"      example(user123)
// @Param       page       query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListAlertsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /alerts [get]
func (h *Handlers) ListAlerts(c *gin.Context) {
	pg := pageParams(c)
	items, total, err := h.alertSvc.List(c.Request.Context(), userID(c), pg.Number, pg.Size)
	if err != nil {
		failService(c, err)
		return
	}
	if items == nil {
		items = []domain.Alert{}
	}
	ok(c, http.StatusOK, ListAlertsResponse{
		Alerts:     items,
		Pagination: newPagination(pg, total),
	})
}

// MarkAlertRead godoc
// @ID          markAlertRead
// @Summary     Acknowledge an alert
// @Description Marks the alert read. Missing, foreign or already read alerts are accepted as a no-op.
// @Tags        Alerts
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
// @Param       id         path    int     true  "Alert ID"    minimum(1)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Storage unavailable"
// @Router      /alerts/{id}/read [post]
func (h *Handlers) MarkAlertRead(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "alert id must be a positive integer")
		return
	}
	if _, err := h.alertSvc.MarkRead(c.Request.Context(), userID(c), id); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
