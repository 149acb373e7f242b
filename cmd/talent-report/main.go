// Command talent-report runs the context-neutral batting pipeline once:
// load the source tables, build the dataset, and write the configured
// report formats.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"truetalent/internal/config"
	"truetalent/internal/exporter"
	"truetalent/internal/loader"
	"truetalent/internal/talent"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to truetalent.yaml when present)")
	season := flag.Int("season", 0, "season to process (overrides config)")
	outputDir := flag.String("out", "", "output directory for reports (overrides config)")
	formats := flag.String("formats", "", "comma-separated export formats: csv,json,xlsx,summary (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *season != 0 {
		cfg.Season = *season
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *formats != "" {
		cfg.Output.Formats = strings.Split(*formats, ",")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration after flag overrides", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "starting report run",
		slog.Int("season", cfg.Season),
		slog.String("output_dir", cfg.Output.Dir))

	inputs, err := loader.LoadInputs(ctx, loader.Paths{
		PitchEvents:       cfg.Inputs.PitchEventsGlob,
		BattingStats:      cfg.Inputs.BattingStats,
		PitchingStats:     cfg.Inputs.PitchingStats,
		ParkFactors:       cfg.Inputs.ParkFactors,
		WOBAConstants:     cfg.Inputs.WOBAConstants,
		ProtectionSummary: cfg.Inputs.ProtectionSummary,
	}, cfg.Season, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load source tables", "error", err)
		os.Exit(1)
	}

	builder := talent.NewBuilder(cfg.Adjustments.Coefficients(), logger)
	dataset, err := builder.Build(ctx, *inputs)
	if err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewWriter(cfg.Output.Dir, logger)
	for _, format := range cfg.Output.Formats {
		path, err := writer.Save(dataset, strings.TrimSpace(format))
		if err != nil {
			logger.ErrorContext(ctx, "Export failed",
				slog.String("format", format), "error", err)
			os.Exit(1)
		}
		logger.InfoContext(ctx, "report written",
			slog.String("format", format),
			slog.String("path", path))
	}

	logger.InfoContext(ctx, "report run complete",
		slog.String("run_id", dataset.RunID.String()),
		slog.Int("batters", len(dataset.Batters)),
		slog.Any("audit", dataset.Audit))
}
