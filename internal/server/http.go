package server

import (
	"sync/atomic"
	"time"

	"resumescan/internal/analyzer"
	"resumescan/internal/config"
	apperrors "resumescan/internal/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Scoring engine shared by every request
	Analyzer *analyzer.Analyzer

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit and upload count limit
	MaxRequestSize int64
	MaxFiles       int

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *apperrors.Logger

	startedAt time.Time
	counters  requestCounters
}

// requestCounters feeds the /stats endpoint
type requestCounters struct {
	batches         atomic.Int64
	failedBatches   atomic.Int64
	resumesAnalyzed atomic.Int64
	resumesSkipped  atomic.Int64
	detections      atomic.Int64
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	MaxFiles       int
	RateLimit      *config.RateLimitConfig
}

// ServerConfigFrom derives a ServerConfig from the application configuration
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		MaxFiles:       cfg.App.MaxFiles,
		RateLimit:      &rateLimit,
	}
}

// NewServer creates a new Server instance
func NewServer(appCfg *config.Config, an *analyzer.Analyzer, cfg ServerConfig, logger *apperrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Analyzer:       an,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		MaxFiles:       cfg.MaxFiles,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		startedAt:      time.Now(),
	}
}
