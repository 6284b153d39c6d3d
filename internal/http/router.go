// Package httpapi wires the HTTP transport (Gin) to the risk services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, subject identity, logging/redaction, panic
// recovery, metrics, rate limiting, CORS, compression and security headers.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-risk-engine/docs"
	"github.com/tbourn/go-risk-engine/internal/classifier"
	"github.com/tbourn/go-risk-engine/internal/config"
	"github.com/tbourn/go-risk-engine/internal/http/handlers"
	"github.com/tbourn/go-risk-engine/internal/http/middleware"
	"github.com/tbourn/go-risk-engine/internal/phonehash"
	"github.com/tbourn/go-risk-engine/internal/services"
)

// Services bundles the use-cases served over HTTP.
type Services struct {
	Risk     *services.RiskService
	Analysis *services.AnalysisService
	Phones   *services.PhoneService
	Alerts   *services.AlertService
}

// NewServices builds every service on db from cfg. The classifier is trained
// once here and shared by all requests.
func NewServices(db *gorm.DB, cfg config.Config, log zerolog.Logger) *Services {
	rs := services.NewRiskService(db, log)
	return &Services{
		Risk:     rs,
		Analysis: services.NewAnalysisService(rs, classifier.New()),
		Phones:   services.NewPhoneService(db, phonehash.New(cfg.Phone.HashSalt, cfg.Phone.DefaultRegion), cfg.Phone.ReportDailyLimit),
		Alerts:   services.NewAlertService(db),
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve the subject from X-User-ID
//  4. Logger: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Rate limiter (per subject/IP; in-process token bucket or redis window)
//  9. CORS, gzip and security headers
func RegisterRoutes(r *gin.Engine, svc *Services, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity())
	r.Use(middleware.Logger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
		MaskParams:  []string{"phone_number"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter, err := newLimiter(cfg.Rate)
	if err != nil {
		return err
	}
	r.Use(limiter)

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "If-None-Match"}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// ACAO: * also for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Scores and alerts are per subject; never let intermediaries cache them.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", handlers.Health)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc.Risk, svc.Analysis, svc.Phones, svc.Alerts)
	mount(groupWithPrefix(r, cfg.APIBasePath), h)
	return nil
}

// mount registers the public API on g.
func mount(g *gin.RouterGroup, h *handlers.Handlers) {
	// Risk ledger
	g.GET("/risk", h.GetRisk)
	g.GET("/risk/entries", h.ListEntries)
	g.POST("/risk/entries/:id/resolve", h.ResolveEntry)
	g.POST("/risk/rebuild", h.Rebuild)

	// Content analysis
	g.POST("/sms/analyze", h.AnalyzeSMS)
	g.GET("/sms/history", h.SMSHistory)
	g.POST("/calls/analyze", h.AnalyzeCall)
	g.POST("/sos", h.TriggerSOS)

	// Phone reputation
	g.POST("/phones/check", h.CheckNumber)
	g.POST("/phones/report", h.ReportNumber)
	g.GET("/phones/report-stats", h.ReportStats)
	g.POST("/phones/observe", h.ObserveCall)

	// Alerts
	g.GET("/alerts", h.ListAlerts)
	g.POST("/alerts/:id/read", h.MarkAlertRead)
}

// newLimiter selects the rate limiter backend. The redis backend allows
// RATE_BURST requests per RATE_WINDOW across all replicas.
func newLimiter(rc config.RateConfig) (gin.HandlerFunc, error) {
	if rc.Backend != "redis" {
		return middleware.NewRateLimiter(rc.RPS, rc.Burst, middleware.KeyByUserOrIP()).Handler(), nil
	}
	client, err := middleware.NewRedisClient(rc.RedisAddr, rc.RedisPassword, rc.RedisDB)
	if err != nil {
		return nil, err
	}
	wl := middleware.NewWindowLimiter(middleware.NewRedisCounter(client), rc.Burst, rc.Window, middleware.KeyByUserOrIP())
	return wl.Handler(), nil
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
