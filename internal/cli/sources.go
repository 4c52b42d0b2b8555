package cli

import (
	"context"
	"time"

	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/extractor"
	"resumescan/internal/observability"
)

// commandObservability sets up tracing and metrics for one command run.
// Console exporters and the Prometheus listener stay off so stdout carries
// only the command's result.
func commandObservability(cfg *config.Config) (*observability.ObservabilityManager, func(), error) {
	obsConfig := observability.GetObservabilityConfig(cfg, Version)
	obsConfig.ConsoleOutput = false
	obsConfig.Prometheus.Enabled = false

	om, err := observability.NewObservabilityManager(obsConfig, cfg)
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = om.Shutdown(ctx)
	}
	return om, shutdown, nil
}

// newLoader builds a document loader whose remote reads are counted
func newLoader(ctx context.Context, cfg *config.Config, logger *errors.Logger, metrics *observability.Metrics) (*extractor.Loader, error) {
	loader, err := extractor.NewLoader(ctx, cfg.Sources, cfg.App.MaxFileSize, logger)
	if err != nil {
		return nil, err
	}
	return loader.WithObserver(metrics.RecordSourceFetch), nil
}
