package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/flightdatalab/uav-flight-analysis/internal/analysis"
	"github.com/flightdatalab/uav-flight-analysis/internal/flightplot"
	"github.com/flightdatalab/uav-flight-analysis/internal/report"
	"github.com/flightdatalab/uav-flight-analysis/internal/storage"
	"github.com/flightdatalab/uav-flight-analysis/internal/telemetry"
)

// Run executes the single-pass pipeline: load, stats, smoothing,
// anomaly detection, then the exporters. Each stage fully materializes
// its output before the next begins and any failure aborts the run.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	seq, err := loadSequence(ctx, config)
	if err != nil {
		return err
	}
	logger.Info("telemetry loaded",
		slog.String("source", config.InputPath),
		slog.Int("samples", len(seq)))

	stats, err := analysis.ComputeStats(seq)
	if err != nil {
		return fmt.Errorf("computing statistics: %w", err)
	}
	logger.Debug("statistics computed",
		slog.Duration("flightTime", stats.TotalFlightTime),
		slog.Float64("distanceKm", stats.TotalDistanceKm))

	smoothed, err := analysis.SmoothVelocity(seq, config.Window)
	if err != nil {
		return fmt.Errorf("smoothing velocity: %w", err)
	}

	anomalies, err := analysis.DetectAnomalies(seq, smoothed, config.Threshold)
	if err != nil {
		return fmt.Errorf("detecting anomalies: %w", err)
	}
	logger.Info("analysis complete",
		slog.Int("window", config.Window),
		slog.Float64("threshold", config.Threshold),
		slog.Int("anomalies", len(anomalies)))

	if err = os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	plots := flightplot.NewWriter(config.OutputDir)
	if err = plots.WriteAll(seq, smoothed, anomalies); err != nil {
		return fmt.Errorf("rendering plots: %w", err)
	}
	logger.Debug("plots written", slog.String("dir", config.OutputDir))

	if err = report.WriteFile(config.OutputDir, stats, anomalies); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Debug("report written", slog.String("file", filepath.Join(config.OutputDir, report.FileName)))

	if config.Dashboard {
		if err = flightplot.WriteDashboard(config.OutputDir, seq, smoothed, anomalies); err != nil {
			return fmt.Errorf("writing dashboard: %w", err)
		}
		logger.Debug("dashboard written", slog.String("file", filepath.Join(config.OutputDir, flightplot.DashboardFile)))
	}

	if config.Archive {
		if err = archiveFlight(ctx, config, seq, logger); err != nil {
			return fmt.Errorf("archiving flight: %w", err)
		}
	}

	logger.Info("flight report complete", slog.String("dir", config.OutputDir))
	return nil
}

func loadSequence(ctx context.Context, config *Config) (telemetry.Sequence, error) {
	if config.FromArchive > 0 {
		store := storage.New(config.InputPath)
		defer store.Close()

		seq, err := store.ReadSequence(ctx, config.FromArchive)
		if err != nil {
			return nil, fmt.Errorf("loading archived flight: %w", err)
		}
		return seq, nil
	}

	return telemetry.LoadFile(config.InputPath)
}

func archiveFlight(ctx context.Context, config *Config, seq telemetry.Sequence, logger *slog.Logger) error {
	dbPath := filepath.Join(config.OutputDir,
		fmt.Sprintf("flight_%s.sqlite", time.Now().UTC().Format("20060102_150405")))

	store := storage.New(dbPath)
	defer store.Close()

	params := struct {
		Window    int     `json:"window"`
		Threshold float64 `json:"threshold"`
	}{config.Window, config.Threshold}

	sessionID, err := store.CreateSession(ctx, config.InputPath, params)
	if err != nil {
		return err
	}
	if err = store.WriteSamples(ctx, sessionID, seq); err != nil {
		return err
	}

	logger.Info("flight archived",
		slog.String("db", dbPath),
		slog.Int64("session", sessionID))
	return store.Close()
}
