package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-risk-engine/internal/classifier"
	"github.com/tbourn/go-risk-engine/internal/phonehash"
	"github.com/tbourn/go-risk-engine/internal/services"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one decay sweep over every scored subject",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		rep, err := services.NewRiskService(db, logger).DecayAll(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), rep)
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute stored scores by replaying the ledger",
	Long: `Replays ACTIVE ledger entries with decay between events and overwrites
the stored score. Without --subject every subject with a ledger is rebuilt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		svc := services.NewRiskService(db, logger)
		if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
			score, err := svc.Rebuild(cmd.Context(), subject)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"subject": subject, "score": score})
		}
		rebuilt, failed, err := svc.RebuildAll(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int{"rebuilt": rebuilt, "failed": failed})
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify a message without touching the store",
	Long:  "Classifies the arguments joined by spaces, or standard input when no arguments are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("nothing to classify")
		}
		return printJSON(cmd.OutOrStdout(), classifier.New().Classify(text))
	},
}

var hashPhoneCmd = &cobra.Command{
	Use:   "hash-phone <number>",
	Short: "Print the salted hash clients should send for a number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := phonehash.New(cfg.Phone.HashSalt, cfg.Phone.DefaultRegion)
		sum, err := h.Hash(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), sum)
		return err
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		closeDB(db)
		logger.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
		return nil
	},
}

func init() {
	rebuildCmd.Flags().String("subject", "", "rebuild a single subject")
	rootCmd.AddCommand(sweepCmd, rebuildCmd, classifyCmd, hashPhoneCmd, migrateCmd)
}
