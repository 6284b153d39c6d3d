// Package handlers provides HTTP handler implementations for the public API.
//
// Every failure leaves the API as an ErrorResponse carrying one of the codes
// in errors.go. Storage faults never leak driver detail: they surface as 503
// "unavailable" with Retry-After, the cause kept on the gin context for the
// access log.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-risk-engine/internal/http/middleware"
	"github.com/tbourn/go-risk-engine/internal/services"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"bad_request"`
	// Safe to show to users
	Message string `json:"message" example:"subject must not be empty"`
}

func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail writes an ErrorResponse from outside the package, e.g. for NoRoute.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }

type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors lists the service errors whose message is safe to echo.
var serviceErrors = []errorMapping{
	{services.ErrEmptySubject, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidSourceKind, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidConfidence, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidStatus, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrEmptySource, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrEmptyText, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrTextTooLong, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidCoordinates, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidPhoneHash, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidPhone, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidCategory, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrInvalidObservation, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrNotesTooLong, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrReportRateLimited, http.StatusTooManyRequests, ErrCodeRateLimited},
	{services.ErrDuplicateReport, http.StatusConflict, ErrCodeConflict},
}

// failService maps a service error onto the API error taxonomy. Anything not
// listed is treated as a transient storage failure.
func failService(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, m.err.Error())
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		// Client went away.
		c.Abort()
		return
	}
	_ = c.Error(err)
	c.Header("Retry-After", "1")
	fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "service temporarily unavailable")
}
