// Command riskd serves the risk engine HTTP API and runs its maintenance
// tasks (decay sweeps, ledger rebuilds, migrations) from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-risk-engine/internal/config"
	"github.com/tbourn/go-risk-engine/internal/repo"
	"github.com/tbourn/go-risk-engine/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "riskd",
	Short: "Scam risk scoring engine",
	Long: `riskd keeps a per-subject risk ledger fed by classified SMS, call
transcripts and SOS triggers, decays it over time, and scores phone numbers
from community reports and call patterns.

Configuration is read from the environment, optionally preloaded from a
.env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		sysutil.SetLogLevel(cfg.LogLevel)
		logger = sysutil.NewLogger(cfg.LogPretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to preload (missing file is ignored)")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB opens the configured store and migrates the schema.
func openDB() (*gorm.DB, error) {
	db, err := repo.Open(repo.Options{
		Driver: cfg.DB.Driver,
		Path:   cfg.DB.Path,
		DSN:    cfg.DB.DSN,
		Trace:  cfg.OTEL.Enabled,
		Silent: cfg.LogLevel != "debug",
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
