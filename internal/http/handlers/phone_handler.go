// Phone reputation HTTP handlers.
//
// This file exposes REST endpoints for caller reputation:
//   - POST /phones/check          (score a number)
//   - POST /phones/report         (community scam report)
//   - GET  /phones/report-stats   (the caller's reporting totals)
//   - POST /phones/observe        (fold one observed call into the call pattern)
//
// Numbers are identified by their salted hash. Clients that cannot hash
// locally may send phone_number instead; it is hashed on arrival and never
// stored or logged.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/reputation"
	"github.com/tbourn/go-risk-engine/internal/services"
)

// PhoneRef identifies a number either by hash or by raw value.
type PhoneRef struct {
	// PhoneHash is the 64-character hex digest; takes precedence when set.
	PhoneHash string `json:"phone_hash,omitempty" example:"3f1c2e9a0b7d4c5e6f8a9b0c1d2e3f4a5b6c7d8e9f0a1b2c3d4e5f6a7b8c9d0e"`
	// PhoneNumber is a raw number in national or international form.
	PhoneNumber string `json:"phone_number,omitempty" example:"+91 98765 43210"`
}

// CheckNumberRequest is the JSON payload for a reputation lookup.
type CheckNumberRequest struct {
	PhoneRef
	// CallContext describes the live call, when the lookup happens while ringing.
	CallContext *reputation.CallSignal `json:"call_context,omitempty"`
}

// ReportNumberRequest is the JSON payload for a community report.
type ReportNumberRequest struct {
	PhoneRef
	Category string `json:"category" example:"loan_scam"`
	Notes    string `json:"notes,omitempty" example:"Asked for a processing fee"`
}

// ObserveCallRequest is the JSON payload for a call observation.
type ObserveCallRequest struct {
	PhoneRef
	services.CallObservation
}

// CheckNumber godoc
// @ID          checkNumber
// @Summary     Check a phone number
// @Description Returns the hybrid reputation score, level, plurality category and recommended action for a number. Unknown numbers start a fresh reputation record.
// @Tags        Phones
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CheckNumberRequest  true  "Number and optional call context"
//
// @Success     200  {object}  services.Assessment
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /phones/check [post]
func (h *Handlers) CheckNumber(c *gin.Context) {
	var req CheckNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	hash, err := h.phoneSvc.ResolveHash(req.PhoneHash, req.PhoneNumber)
	if err != nil {
		failService(c, err)
		return
	}
	res, err := h.phoneSvc.CheckNumber(c.Request.Context(), hash, req.CallContext)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// ReportNumber godoc
// @ID          reportNumber
// @Summary     Report a scam number
// @Description Records the caller's report and recomputes the number's reputation. One report per reporter per number; a rolling daily limit applies.
// @Tags        Phones
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Reporter ID"  example(user123)
// @Param       body       body    handlers.ReportNumberRequest  true  "Report payload"
//
// @Success     201  {object}  services.ReportResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Already reported"
// @Failure     429  {object}  handlers.ErrorResponse  "Daily report limit reached"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /phones/report [post]
func (h *Handlers) ReportNumber(c *gin.Context) {
	var req ReportNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	hash, err := h.phoneSvc.ResolveHash(req.PhoneHash, req.PhoneNumber)
	if err != nil {
		failService(c, err)
		return
	}
	res, err := h.phoneSvc.SubmitReport(c.Request.Context(), userID(c), hash, req.Category, req.Notes)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

// ReportStats godoc
// @ID          reportStats
// @Summary     Reporter statistics
// @Tags        Phones
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Reporter ID"  example(user123)
//
// @Success     200  {object}  services.ReportStats
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /phones/report-stats [get]
func (h *Handlers) ReportStats(c *gin.Context) {
	res, err := h.phoneSvc.ReportStats(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// ObserveCall godoc
// @ID          observeCall
// @Summary     Record a call observation
// @Description Updates the number's 24h call frequency, average duration, short-call ratio, VoIP flag and time pattern.
// @Tags        Phones
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ObserveCallRequest  true  "Observation payload"
//
// @Success     200  {object}  domain.CallMetadata
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /phones/observe [post]
func (h *Handlers) ObserveCall(c *gin.Context) {
	var req ObserveCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	hash, err := h.phoneSvc.ResolveHash(req.PhoneHash, req.PhoneNumber)
	if err != nil {
		failService(c, err)
		return
	}
	m, err := h.phoneSvc.ObserveCall(c.Request.Context(), hash, req.CallObservation)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}
