// Package repo implements the data persistence layer for the risk engine,
// backed by GORM. This file contains database bootstrapping helpers for the
// supported drivers (pure-Go SQLite, PostgreSQL, MySQL) and schema migrations.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-risk-engine/internal/domain"
)

// Supported DB drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown db driver")

// Options selects and tunes the database connection.
type Options struct {
	Driver string // sqlite | postgres | mysql
	Path   string // sqlite file path
	DSN    string // postgres / mysql DSN
	Trace  bool   // register the OpenTelemetry GORM plugin
	Silent bool   // silence the GORM logger
}

// Open opens a database for the configured driver and applies pool settings.
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if opts.Silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(opts.Driver) {
	case "", DriverSQLite:
		return OpenSQLite(opts.Path, cfg, opts.Trace)
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(opts.DSN), cfg)
	case DriverMySQL:
		db, err = gorm.Open(mysql.Open(opts.DSN), cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if opts.Trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}
	tunePool(db, 25)
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string, cfg *gorm.Config, trace bool) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}
	tunePool(db, 10)
	return db, nil
}

func tunePool(db *gorm.DB, n int) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(n)
		sqlDB.SetMaxIdleConns(n)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
}

// Models lists every table owned by the engine, in migration order.
func Models() []any {
	return []any{
		&domain.RiskEntry{},
		&domain.RiskState{},
		&domain.ProcessedEvent{},
		&domain.Alert{},
		&domain.HealthProfile{},
		&domain.SosLog{},
		&domain.PhoneReputation{},
		&domain.UserReport{},
		&domain.CallMetadata{},
	}
}

// AutoMigrate creates or updates the schema for all engine tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// IsDuplicate reports whether err is a unique-constraint violation. Not every
// driver maps these to gorm.ErrDuplicatedKey, so message text is checked too.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite: "UNIQUE constraint failed"; Postgres: "duplicate key value";
	// MySQL: "Duplicate entry".
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key") ||
		strings.Contains(low, "duplicate entry")
}
