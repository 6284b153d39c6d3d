package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/tbourn/go-risk-engine/internal/http"
	"github.com/tbourn/go-risk-engine/internal/observability"
	"github.com/tbourn/go-risk-engine/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run the decay scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	svc := httpapi.NewServices(db, cfg, logger)
	if err := httpapi.RegisterRoutes(r, svc, cfg); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	return serveUntilDone(ctx, srv, svc.Risk)
}

// serveUntilDone runs srv and, when enabled, the decay timer until ctx is
// cancelled or the server fails, then drains both.
func serveUntilDone(ctx context.Context, srv *http.Server, sweeper services.Sweeper) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Decay.Enabled {
		timer := services.NewDecayTimer(sweeper, cfg.Decay.Interval, logger.With().Str("component", "decay").Logger())
		g.Go(func() error {
			timer.Start(gctx)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			timer.Stop()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
