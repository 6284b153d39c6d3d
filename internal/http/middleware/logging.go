// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the per-request plumbing that every other middleware and
// handler relies on: the correlation ID, the calling subject, the access log
// and panic recovery. Install them as RequestID, Identity, Logger, Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
	userIDHeader    = "X-User-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the logged raw query in bytes.
	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID or mints a UUIDv4, stores it in
// the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Identity copies a non-empty X-User-ID header into the context under
// "userID" unless an upstream auth layer already set it. Rate limiting, the
// access log and the handlers all read the subject from there.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok {
			if uid := strings.TrimSpace(c.GetHeader(userIDHeader)); uid != "" {
				c.Set(userIDKey, uid)
			}
		}
		c.Next()
	}
}

// Logger emits one structured line per request.
//
// Query strings and referers go through a Redactor, so raw phone numbers
// never reach the log. A request-scoped logger carrying request_id, subject
// and route is stored in the context for LoggerFrom. Failed requests
// (5xx or with c.Errors) also log the scrubbed request headers.
func Logger(opts ...RedactOptions) gin.HandlerFunc {
	var o RedactOptions
	for _, x := range opts {
		o.MaskHeaders = append(o.MaskHeaders, x.MaskHeaders...)
		o.MaskParams = append(o.MaskParams, x.MaskParams...)
	}
	red := NewRedactor(o)

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		l := log.With().
			Str("request_id", ctxString(c, requestIDKey)).
			Str("subject", ctxString(c, userIDKey)).
			Str("method", c.Request.Method).
			Str("route", route).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.WithLevel(levelFor(status, len(c.Errors) > 0)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", red.String(c.Request.Referer())).
			Str("query", truncate(red.Query(c.Request.URL.RawQuery), maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size())
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if len(c.Errors) > 0 || status >= http.StatusInternalServerError {
			ev = ev.Interface("headers", red.Headers(c.Request.Header))
		}
		ev.Msg("http request")
	}
}

// levelFor maps a response outcome to a log level.
func levelFor(status int, hasErrors bool) zerolog.Level {
	switch {
	case hasErrors || status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Recovery turns a panic into a JSON 500 in the handlers' error shape and
// logs the stack. If the handler already wrote a response only the status is
// aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := ctxString(c, requestIDKey)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the logger attached by Logger, or the global logger when
// none is attached. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.Logger
	return &l
}

func ctxString(c *gin.Context, key string) string {
	s, _ := c.Get(key)
	v, _ := s.(string)
	return v
}

// truncate cuts s to max bytes plus an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
