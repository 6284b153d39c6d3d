// Analysis HTTP handlers.
//
// This file exposes REST endpoints for inbound content:
//   - POST /sms/analyze     (classify an SMS and score the subject)
//   - GET  /sms/history     (previously analyzed messages)
//   - POST /calls/analyze   (classify a call transcript and score the subject)
//   - POST /sos             (log an emergency and raise the subject's risk)
//
// Retried analyses are answered from the stored verdict with
// previously_analyzed=true and status 200; first analyses return 201.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/domain"
	"github.com/tbourn/go-risk-engine/internal/services"
	"github.com/tbourn/go-risk-engine/internal/utils"
)

// AnalyzeSMSRequest is the JSON payload for SMS analysis.
type AnalyzeSMSRequest struct {
	// Message is the SMS body as received.
	Message string `json:"message" example:"Your account is blocked. Share OTP 123456 to unblock now"`
}

// AnalyzeCallRequest is the JSON payload for call analysis.
type AnalyzeCallRequest struct {
	// Transcript is the speech-to-text output of the call.
	Transcript string `json:"transcript" example:"This is your bank calling, confirm the code we just sent"`
}

// HistoryResponse lists analyzed messages newest first.
type HistoryResponse struct {
	Items []services.HistoryItem `json:"items"`
}

// AnalyzeSMS godoc
// @ID          analyzeSMS
// @Summary     Analyze an SMS
// @Description Classifies the message, records a scam contribution on the subject's ledger and returns the verdict with any alerts raised. Retrying the same text returns the stored verdict.
// @Tags        Analysis
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
// @Param       body       body    handlers.AnalyzeSMSRequest  true  "SMS payload"
//
// @Success     201  {object}  services.Analysis  "Analyzed"
// @Success     200  {object}  services.Analysis  "Previously analyzed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /sms/analyze [post]
func (h *Handlers) AnalyzeSMS(c *gin.Context) {
	var req AnalyzeSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.analysisSvc.AnalyzeSMS(c.Request.Context(), userID(c), req.Message)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, analysisStatus(res), res)
}

// SMSHistory godoc
// @ID          smsHistory
// @Summary     SMS analysis history
// @Description Returns the subject's analyzed SMS messages, newest first, each linked to its ledger entry.
// @Tags        Analysis
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Subject ID"    example(user123)
// @Param       limit      query   int     false  "Maximum items" minimum(1) maximum(100) default(50)
//
// @Success     200  {object}  handlers.HistoryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /sms/history [get]
func (h *Handlers) SMSHistory(c *gin.Context) {
	limit := utils.IntParam(c.Query("limit"), 50, 1, 100)
	items, err := h.analysisSvc.History(c.Request.Context(), userID(c), domain.SourceSMS, limit)
	if err != nil {
		failService(c, err)
		return
	}
	if items == nil {
		items = []services.HistoryItem{}
	}
	ok(c, http.StatusOK, HistoryResponse{Items: items})
}

// AnalyzeCall godoc
// @ID          analyzeCall
// @Summary     Analyze a call transcript
// @Description Classifies the transcript with the same pipeline as SMS and records a call-weighted contribution.
// @Tags        Analysis
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Subject ID"  example(user123)
// @Param       body       body    handlers.AnalyzeCallRequest  true  "Transcript payload"
//
// @Success     201  {object}  services.Analysis  "Analyzed"
// @Success     200  {object}  services.Analysis  "Previously analyzed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /calls/analyze [post]
func (h *Handlers) AnalyzeCall(c *gin.Context) {
	var req AnalyzeCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.analysisSvc.AnalyzeCall(c.Request.Context(), userID(c), req.Transcript)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, analysisStatus(res), res)
}

// TriggerSOS godoc
// @ID          triggerSOS
// @Summary     Trigger an SOS
// @Description Logs an emergency with optional location and message, raises a critical alert and adds the SOS contribution to the subject's risk. The body may be omitted.
// @Tags        Analysis
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "Subject ID"  example(user123)
// @Param       body       body    services.SOSRequest  false  "Location and message"
//
// @Success     201  {object}  services.SOSResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503  {object}  handlers.ErrorResponse  "Storage unavailable"
// @Router      /sos [post]
func (h *Handlers) TriggerSOS(c *gin.Context) {
	var req services.SOSRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	res, err := h.analysisSvc.TriggerSOS(c.Request.Context(), userID(c), req)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

func analysisStatus(a *services.Analysis) int {
	if a.PreviouslyAnalyzed {
		return http.StatusOK
	}
	return http.StatusCreated
}
