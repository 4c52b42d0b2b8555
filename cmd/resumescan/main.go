package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumescan/internal/cli"
	"resumescan/internal/config"
	"resumescan/internal/errors"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging. Logs go to stderr so command output stays clean.
	level, err := errors.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := errors.NewLoggerWithWriter(os.Stderr, level)

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}

	logger.Debug("Starting resumescan application",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"taxonomy_file", cfg.Analysis.TaxonomyFile)

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}
