package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"resumescan/internal/config"
	apperrors "resumescan/internal/errors"
	"resumescan/internal/observability"
)

// CertificateManager serves TLS certificates and swaps them in when the
// files on disk change
type CertificateManager struct {
	mu sync.RWMutex

	serverCert       *tls.Certificate
	serverCertExpiry time.Time
	caCertPool       *x509.CertPool

	config     config.TLSConfig
	autoReload config.AutoReloadConfig
	watcher    *CertWatcher

	reloadCallbacks []ReloadCallback
	metrics         *observability.Metrics
	logger          *apperrors.Logger

	stats CertificateStats
}

// ReloadCallback is called after every reload attempt
type ReloadCallback func(success bool, err error)

// CertificateStats summarizes reload activity
type CertificateStats struct {
	ReloadCount        int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

// NewCertificateManager creates a certificate manager; call Start to load
// certificates
func NewCertificateManager(tlsConfig config.TLSConfig, om *observability.ObservabilityManager, logger *apperrors.Logger) *CertificateManager {
	cm := &CertificateManager{
		config:     tlsConfig,
		autoReload: tlsConfig.AutoReload,
		logger:     logger,
	}
	if om != nil {
		cm.metrics = om.GetMetrics()
	}
	return cm
}

// Start loads the certificates and, when enabled, begins watching their files
func (cm *CertificateManager) Start() error {
	if err := cm.load(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	if !cm.autoReload.Enabled || !cm.autoReload.FileWatcher.Enabled {
		return nil
	}
	files := nonEmpty(cm.config.CertFile, cm.config.KeyFile, cm.config.CAFile)
	if len(files) == 0 {
		cm.logger.Info("Certificate auto-reload skipped: certificates were not loaded from files")
		return nil
	}

	cm.watcher = NewCertWatcher(files, cm.autoReload.FileWatcher.DebounceDelay, cm.reloadWithRetry, cm.logger)
	if err := cm.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	return nil
}

// Stop stops the file watcher
func (cm *CertificateManager) Stop() error {
	if cm.watcher == nil {
		return nil
	}
	return cm.watcher.Stop()
}

// WatcherRunning reports whether certificate files are being watched
func (cm *CertificateManager) WatcherRunning() bool {
	return cm.watcher != nil && cm.watcher.IsRunning()
}

// GetServerCertificate returns the current server certificate for TLS handshakes
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}
	if !cm.serverCertExpiry.IsZero() && time.Now().After(cm.serverCertExpiry) {
		cm.logger.Warn("Serving an expired certificate",
			"expiry", cm.serverCertExpiry,
			"server_name", hello.ServerName)
	}
	return cm.serverCert, nil
}

// GetCACertPool returns the current CA certificate pool
func (cm *CertificateManager) GetCACertPool() *x509.CertPool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.caCertPool
}

// VerifyPeerCertificate verifies client certificates against the current CA
// pool, so a reloaded CA applies without restarting the listener
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	pool := cm.GetCACertPool()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		if c, err := x509.ParseCertificate(raw); err == nil {
			intermediates.AddCert(c)
		}
	}

	_, err = cert.Verify(x509.VerifyOptions{
		Roots:         pool,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	})
	if err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// AddReloadCallback registers a callback for reload attempts
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// CheckExpiry returns the time until the server certificate expires
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(cm.serverCertExpiry), nil
}

// Stats returns a snapshot of reload activity
func (cm *CertificateManager) Stats() CertificateStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.stats
}

// Reload loads the certificates once
func (cm *CertificateManager) Reload() error {
	err := cm.load()
	cm.recordReload(err)
	return err
}

// reloadWithRetry is the watcher callback. Failed loads are retried up to
// MaxRetries times, RetryDelay apart.
func (cm *CertificateManager) reloadWithRetry() {
	attempts := max(cm.autoReload.MaxRetries, 0) + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = cm.Reload(); err == nil {
			cm.logger.Info("TLS certificates reloaded", "attempt", attempt)
			return
		}
		cm.logger.Warn("Certificate reload failed",
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err)
		if attempt < attempts {
			time.Sleep(cm.autoReload.RetryDelay)
		}
	}
	cm.logger.LogError(err, "Giving up on certificate reload, keeping previous certificates")
}

// load parses the configured certificates and swaps them in atomically
func (cm *CertificateManager) load() error {
	cert, err := loadKeyPair(cm.config)
	if err != nil {
		return err
	}

	var expiry time.Time
	if len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return fmt.Errorf("failed to parse server certificate: %w", err)
		}
		expiry = leaf.NotAfter
	}

	var pool *x509.CertPool
	if cm.config.Mode == "mutual" {
		if pool, err = loadCAPool(cm.config); err != nil {
			return err
		}
	}

	cm.mu.Lock()
	cm.serverCert = &cert
	cm.serverCertExpiry = expiry
	cm.caCertPool = pool
	cm.mu.Unlock()
	return nil
}

func (cm *CertificateManager) recordReload(err error) {
	cm.mu.Lock()
	cm.stats.ReloadCount++
	cm.stats.LastReloadTime = time.Now()
	cm.stats.LastReloadSuccess = err == nil
	cm.stats.LastReloadError = ""
	if err != nil {
		cm.stats.ReloadFailureCount++
		cm.stats.LastReloadError = err.Error()
	}
	callbacks := append([]ReloadCallback(nil), cm.reloadCallbacks...)
	cm.mu.Unlock()

	if cm.metrics != nil {
		cm.metrics.RecordCertReload(context.Background(), err == nil)
	}
	for _, callback := range callbacks {
		callback(err == nil, err)
	}
}

// loadKeyPair loads the server key pair from PEM content or files
func loadKeyPair(cfg config.TLSConfig) (tls.Certificate, error) {
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		cert, err := tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	}

	return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
}

// loadCAPool builds the client CA pool from PEM content or a file
func loadCAPool(cfg config.TLSConfig) (*x509.CertPool, error) {
	var caCert []byte
	switch {
	case cfg.CAContent != "":
		caCert = []byte(cfg.CAContent)
	case cfg.CAFile != "":
		data, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCert = data
	default:
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
