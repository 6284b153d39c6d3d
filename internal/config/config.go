// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the HTTP server,
// logging, storage, rate limiting, decay scheduling, phone hashing and
// observability settings of the risk engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// DBConfig selects the store.
type DBConfig struct {
	Driver string // sqlite|postgres|mysql
	Path   string // sqlite file
	DSN    string // postgres/mysql
}

// RateConfig configures HTTP rate limiting.
type RateConfig struct {
	RPS           float64       // tokens per second (memory backend)
	Burst         int           // bucket size; requests per window (redis backend)
	Backend       string        // memory|redis
	Window        time.Duration // redis fixed window
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DecayConfig configures the background decay sweep.
type DecayConfig struct {
	Enabled  bool
	Interval time.Duration
}

// PhoneConfig configures phone hashing and community reports.
type PhoneConfig struct {
	HashSalt         string
	DefaultRegion    string
	ReportDailyLimit int
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-risk-engine")
	Environment string  // OTEL_DEPLOYMENT_ENVIRONMENT (e.g. "production"); empty omits it
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	DB    DBConfig
	Rate  RateConfig
	Decay DecayConfig
	Phone PhoneConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:   getenv("DB_PATH", "risk.db"),
			DSN:    getenv("DB_DSN", ""),
		},

		Rate: RateConfig{
			RPS:           getfloat("RATE_RPS", 5.0),
			Burst:         getint("RATE_BURST", 10),
			Backend:       strings.ToLower(getenv("RATE_BACKEND", "memory")),
			Window:        getdur("RATE_WINDOW", time.Second),
			RedisAddr:     getenv("REDIS_ADDR", ""),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			RedisDB:       getint("REDIS_DB", 0),
		},

		Decay: DecayConfig{
			Enabled:  getbool("DECAY_ENABLED", true),
			Interval: getdur("DECAY_INTERVAL", time.Hour),
		},

		Phone: PhoneConfig{
			HashSalt:         getenv("PHONE_HASH_SALT", ""),
			DefaultRegion:    strings.ToUpper(getenv("PHONE_DEFAULT_REGION", "IN")),
			ReportDailyLimit: getint("REPORT_DAILY_LIMIT", 10),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-risk-engine"),
			Environment: getenv("OTEL_DEPLOYMENT_ENVIRONMENT", ""),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "sqlite3" {
		cfg.DB.Driver = "sqlite"
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	for _, check := range []func() error{cfg.validateServer, cfg.DB.validate, cfg.Rate.validate, cfg.validateDomain} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cfg Config) validateServer() error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	switch {
	case strings.TrimSpace(cfg.Port) == "":
		return errors.New("PORT must not be empty")
	case cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0:
		return errors.New("timeouts must be positive durations")
	case cfg.MaxHeaderBytes <= 0:
		return errors.New("MAX_HEADER_BYTES must be > 0")
	case cfg.Security.HSTSMaxAge < 0:
		return errors.New("HSTS_MAX_AGE must be >= 0")
	case cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1:
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case "sqlite":
		if strings.TrimSpace(db.Path) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "postgres", "mysql":
		if strings.TrimSpace(db.DSN) == "" {
			return fmt.Errorf("DB_DSN is required for DB_DRIVER=%s", db.Driver)
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, postgres, mysql")
	}
	return nil
}

func (rc RateConfig) validate() error {
	if rc.RPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if rc.Burst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	switch rc.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(rc.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required for RATE_BACKEND=redis")
		}
		if rc.Window <= 0 {
			return errors.New("RATE_WINDOW must be > 0")
		}
	default:
		return errors.New("RATE_BACKEND must be one of: memory, redis")
	}
	return nil
}

func (cfg Config) validateDomain() error {
	switch {
	case cfg.Decay.Interval <= 0:
		return errors.New("DECAY_INTERVAL must be > 0")
	case cfg.Phone.ReportDailyLimit < 1:
		return errors.New("REPORT_DAILY_LIMIT must be >= 1")
	case len(cfg.Phone.DefaultRegion) != 2:
		return errors.New("PHONE_DEFAULT_REGION must be a two-letter region code")
	}
	return nil
}


func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
