package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/scizon/internal/config"
	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/importer"
	"github.com/JonMunkholm/scizon/internal/logging"
	"github.com/JonMunkholm/scizon/internal/session"
	"github.com/JonMunkholm/scizon/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"submit_mode", cfg.Submit.Mode,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	limiter := importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)
	imp := importer.NewImporter(newSubmitter(cfg),
		importer.WithLimiter(limiter),
		importer.WithMaxBytes(cfg.Import.MaxFileSize),
		importer.WithTimeout(cfg.Import.Timeout),
	)

	store := session.NewStore(imp, session.Config{
		IdleTTL:          cfg.Session.IdleTTL,
		ProfileSaveDelay: cfg.Dashboard.ProfileSaveDelay,
	})
	charts := dashboard.NewChartRenderer(cfg.Dashboard.ChartTheme, cfg.Dashboard.ChartAssetsHost)
	server := web.NewServer(cfg, imp, store, charts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		store.RunJanitor(gctx, cfg.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		return server.Start()
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting requests first so no new imports start.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Submissions are detached from request contexts; wait for them to settle.
		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newSubmitter picks the submission backend named by SUBMIT_MODE.
func newSubmitter(cfg *config.Config) importer.Submitter {
	if cfg.Submit.Mode == config.SubmitModeHTTP {
		slog.Info("submitting imports over http", "endpoint", cfg.Submit.Endpoint)
		return importer.NewHTTPSubmitter(cfg.Submit.Endpoint, cfg.Submit.Token, cfg.Submit.HTTPTimeout)
	}
	slog.Info("submitting imports to the simulator",
		"delay", cfg.Submit.Delay.String(),
		"success_rate", cfg.Submit.SuccessRate,
	)
	return importer.NewSimulatedSubmitter(cfg.Submit.Delay, cfg.Submit.SuccessRate)
}
