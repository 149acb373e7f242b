// Command talent-server builds the dataset once at startup and serves it
// over the read-only JSON API until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"truetalent/internal/config"
	"truetalent/internal/loader"
	"truetalent/internal/talent"
	"truetalent/internal/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to truetalent.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	inputs, err := loader.LoadInputs(ctx, loader.Paths{
		PitchEvents:       cfg.Inputs.PitchEventsGlob,
		BattingStats:      cfg.Inputs.BattingStats,
		PitchingStats:     cfg.Inputs.PitchingStats,
		ParkFactors:       cfg.Inputs.ParkFactors,
		WOBAConstants:     cfg.Inputs.WOBAConstants,
		ProtectionSummary: cfg.Inputs.ProtectionSummary,
	}, cfg.Season, logger)
	if err != nil {
		return fmt.Errorf("load source tables: %w", err)
	}

	builder := talent.NewBuilder(cfg.Adjustments.Coefficients(), logger)
	dataset, err := builder.Build(ctx, *inputs)
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}

	metrics := http.NewMetrics()
	metrics.DatasetBuilds.Inc()
	metrics.DatasetBatters.Set(float64(len(dataset.Batters)))

	store := http.NewStore(dataset)
	router := http.NewRouter(store, metrics, logger, http.RouterConfig{
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	srv := &nethttp.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("run_id", dataset.RunID.String()),
			slog.Int("batters", len(dataset.Batters)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
