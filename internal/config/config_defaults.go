package config

import (
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "RESUMESCAN"

// DefaultMaxFileSize is the upload limit for a single request
const DefaultMaxFileSize = 16 * 1024 * 1024

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})

	// TLS
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "")
	v.SetDefault("server.tls.insecureSkipVerify", false)
	v.SetDefault("server.tls.autoReload.enabled", false)
	v.SetDefault("server.tls.autoReload.maxRetries", 3)
	v.SetDefault("server.tls.autoReload.retryDelay", 10*time.Second)
	v.SetDefault("server.tls.autoReload.fileWatcher.enabled", true)
	v.SetDefault("server.tls.autoReload.fileWatcher.debounceDelay", time.Second)

	// Rate limiting
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown", "csv", "xlsx"})
	v.SetDefault("app.maxFileSize", DefaultMaxFileSize)
	v.SetDefault("app.maxFiles", 50)

	// Analysis
	v.SetDefault("analysis.taxonomyFile", "")
	v.SetDefault("analysis.minJobDescriptionLength", 10)
	v.SetDefault("analysis.gapSkillCap", 5)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.currencySymbol", "₱")
	v.SetDefault("analysis.baseSalary", 25000)

	// Document sources
	v.SetDefault("sources.http.enabled", true)
	v.SetDefault("sources.http.timeout", 15*time.Second)
	v.SetDefault("sources.http.maxBytes", DefaultMaxFileSize)
	v.SetDefault("sources.http.userAgent", "resumescan/1.0")
	v.SetDefault("sources.http.circuitBreaker.enabled", true)
	v.SetDefault("sources.http.circuitBreaker.maxRequests", 3)
	v.SetDefault("sources.http.circuitBreaker.interval", time.Minute)
	v.SetDefault("sources.http.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("sources.http.circuitBreaker.minRequests", 3)
	v.SetDefault("sources.http.circuitBreaker.failureThreshold", 0.6)
	v.SetDefault("sources.s3.enabled", false)
	v.SetDefault("sources.s3.region", "us-east-1")
	v.SetDefault("sources.s3.endpoint", "")
	v.SetDefault("sources.s3.accessKeyId", "")
	v.SetDefault("sources.s3.secretAccessKey", "")
	v.SetDefault("sources.s3.usePathStyle", false)

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.tlsCerts", "")
	v.SetDefault("vault.secrets.s3Credentials", "")

	// Observability
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumescan")
	v.SetDefault("observability.serviceVersion", "")  // Falls back to the app version
	v.SetDefault("observability.serviceInstance", "") // Derived from the hostname
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.prettyPrint", true)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.analysis.enabled", true)
	v.SetDefault("observability.customMetrics.analysis.trackDuration", true)
	v.SetDefault("observability.customMetrics.analysis.trackScores", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackSourceFetches", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// Defaults returns the configuration used when no file or environment
// overrides are present.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic("config: defaults do not unmarshal: " + err.Error())
	}
	c.applyFallbacks()
	return &c
}
