package cli

import (
	"fmt"

	"resumescan/internal/common"
	"resumescan/internal/config"
	"resumescan/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume scoring",
	Long: `Start an HTTP server that provides REST API endpoints for resume scoring.

Available endpoints:
- POST /analyze: Score uploaded resumes against a job description
- POST /detect-industry: Detect a job description's industry
- GET /api/industry-skills/{industry}: Skills expected for an industry
- GET /industries: Known industries
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(flags *pflag.FlagSet, cfg *config.ServerConfig) {
	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("port", &cfg.Port)
	override("host", &cfg.Host)
	override("tls-mode", &cfg.TLS.Mode)
	override("cert-file", &cfg.TLS.CertFile)
	override("key-file", &cfg.TLS.KeyFile)
	override("ca-file", &cfg.TLS.CAFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeFlags(cmd.Flags(), &cfg.Server)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	an, err := common.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	return server.NewServer(cfg, an, server.ServerConfigFrom(cfg, Version), logger).Start(cmd.Context())
}
