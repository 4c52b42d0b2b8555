package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/vault/api"

	"resumescan/internal/errors"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	// Secret paths
	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets defines where to find secrets in Vault. Every path points at
// a KVv2 secret; an empty path is skipped.
type VaultSecrets struct {
	APIKeys       string `mapstructure:"apiKeys"`       // "keys": comma-separated API keys
	TLSCerts      string `mapstructure:"tlsCerts"`      // "cert", "key", "ca": PEM content
	S3Credentials string `mapstructure:"s3Credentials"` // "access_key_id", "secret_access_key", optional "region"
}

// VaultClient reads KVv2 secrets
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// VaultSecret is the data and version of a KVv2 secret
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// String returns a string field of the secret, or "" when it is missing or
// not a string.
func (s *VaultSecret) String(key string) string {
	v, _ := s.Data[key].(string)
	return v
}

// NewVaultClient connects to Vault and checks that it is reachable and
// unsealed. It returns nil when Vault is disabled.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = discardLogger()
	}

	apiConfig := api.DefaultConfig()
	if cfg.Address != "" {
		apiConfig.Address = cfg.Address
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiConfig.Address)
	}
	logger.Debug("Connected to Vault",
		"address", apiConfig.Address,
		"namespace", cfg.Namespace,
		"version", health.Version)

	return &VaultClient{client: client, logger: logger}, nil
}

// resolveVaultToken prefers the configured token over the token file
func resolveVaultToken(cfg VaultConfig) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// ReadSecret reads a KVv2 secret. path includes the mount's data/ segment,
// e.g. secret/data/resumescan/api-keys.
func (vc *VaultClient) ReadSecret(path string) (*VaultSecret, error) {
	vc.logger.Debug("Reading secret from Vault", "path", path)
	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, _ := secret.Data["metadata"].(map[string]any)
	version, err := secretVersion(metadata["version"])
	if err != nil {
		return nil, fmt.Errorf("secret at %s: %w", path, err)
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

// secretVersion accepts the shapes the version takes after JSON decoding.
// A missing version reads as 0.
func secretVersion(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse version %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected type for version: %T", raw)
	}
}

func discardLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
}

type vaultSecretApplier struct {
	name  string
	path  string
	apply func(*Config, *VaultSecret) error
}

func vaultSecretAppliers(paths VaultSecrets) []vaultSecretApplier {
	return []vaultSecretApplier{
		{"API keys", paths.APIKeys, func(c *Config, s *VaultSecret) error {
			return applyAPIKeys(&c.Server, s)
		}},
		{"TLS certificates", paths.TLSCerts, func(c *Config, s *VaultSecret) error {
			applyTLSContent(&c.Server.TLS, s)
			return nil
		}},
		{"S3 credentials", paths.S3Credentials, func(c *Config, s *VaultSecret) error {
			return applyS3Credentials(&c.Sources.S3, s)
		}},
	}
}

// ApplyVaultSecrets reads every configured secret path once and copies the
// values into cfg. Nothing is re-read later; only file-based TLS
// certificates reload at runtime.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		return nil
	}
	if logger == nil {
		logger = discardLogger()
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client", "address", cfg.Vault.Address)
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}

	for _, a := range vaultSecretAppliers(cfg.Vault.Secrets) {
		if a.path == "" {
			continue
		}
		secret, err := client.ReadSecret(a.path)
		if err != nil {
			logger.LogError(err, "Failed to load secret from Vault", "secret", a.name, "path", a.path)
			return fmt.Errorf("failed to load %s from vault: %w", a.name, err)
		}
		if err := a.apply(cfg, secret); err != nil {
			return fmt.Errorf("vault %s at %s: %w", a.name, a.path, err)
		}
		logger.Info("Secret loaded from Vault", "secret", a.name, "version", secret.Version)
	}
	return nil
}

// applyAPIKeys replaces the server API keys with the comma-separated "keys"
// field. An empty field leaves the configured keys alone.
func applyAPIKeys(server *ServerConfig, secret *VaultSecret) error {
	raw, ok := secret.Data["keys"].(string)
	if !ok {
		return fmt.Errorf("secret must contain a string 'keys' field")
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		server.APIKeys = keys
	}
	return nil
}

// applyTLSContent copies the PEM content fields that are present
func applyTLSContent(tls *TLSConfig, secret *VaultSecret) {
	for key, target := range map[string]*string{
		"cert": &tls.CertContent,
		"key":  &tls.KeyContent,
		"ca":   &tls.CAContent,
	} {
		if v := secret.String(key); v != "" {
			*target = v
		}
	}
}

// applyS3Credentials copies access_key_id and secret_access_key (and an
// optional region) from a Vault secret into the S3 source settings.
func applyS3Credentials(s3 *S3SourceConfig, secret *VaultSecret) error {
	accessKey := secret.String("access_key_id")
	secretKey := secret.String("secret_access_key")
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("secret must contain access_key_id and secret_access_key")
	}
	s3.AccessKeyID = accessKey
	s3.SecretAccessKey = secretKey
	if region := secret.String("region"); region != "" {
		s3.Region = region
	}
	return nil
}
