package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescan/internal/errors"
)

func newTestLogger() *errors.Logger {
	return errors.NewLoggerWithWriter(io.Discard, slog.LevelDebug)
}

// newFakeVault serves the health endpoint and KVv2 secrets keyed by logical path.
func newFakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sys/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"initialized": true, "sealed": false, "standby": false,
			"version": "1.15.0", "cluster_name": "test",
		})
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		data, ok := secrets[r.URL.Path[len("/v1/"):]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"secret/data/resumescan/api-keys": {"keys": "key-one, key-two"},
		"secret/data/resumescan/tls":      {"cert": "cert-pem", "key": "key-pem"},
		"secret/data/resumescan/s3": {
			"access_key_id":     "AKIATEST",
			"secret_access_key": "s3cr3t",
			"region":            "ap-southeast-1",
		},
	})

	cfg := Defaults()
	cfg.Vault = VaultConfig{
		Enabled: true,
		Address: srv.URL,
		Token:   "root-token",
		Secrets: VaultSecrets{
			APIKeys:       "secret/data/resumescan/api-keys",
			TLSCerts:      "secret/data/resumescan/tls",
			S3Credentials: "secret/data/resumescan/s3",
		},
	}

	require.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))

	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Server.APIKeys)
	assert.Equal(t, "cert-pem", cfg.Server.TLS.CertContent)
	assert.Equal(t, "key-pem", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CAContent)
	assert.Equal(t, "AKIATEST", cfg.Sources.S3.AccessKeyID)
	assert.Equal(t, "s3cr3t", cfg.Sources.S3.SecretAccessKey)
	assert.Equal(t, "ap-southeast-1", cfg.Sources.S3.Region)
}

func TestApplyVaultSecretsMissingSecret(t *testing.T) {
	srv := newFakeVault(t, nil)

	cfg := Defaults()
	cfg.Vault = VaultConfig{
		Enabled: true,
		Address: srv.URL,
		Token:   "root-token",
		Secrets: VaultSecrets{S3Credentials: "secret/data/missing"},
	}

	err := ApplyVaultSecrets(cfg, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load S3 credentials from vault")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
}

func TestApplyS3Credentials(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		s3 := S3SourceConfig{Region: "us-east-1"}
		err := applyS3Credentials(&s3, &VaultSecret{Data: map[string]any{
			"access_key_id": "id", "secret_access_key": "secret",
		}})
		require.NoError(t, err)
		assert.Equal(t, "id", s3.AccessKeyID)
		assert.Equal(t, "secret", s3.SecretAccessKey)
		assert.Equal(t, "us-east-1", s3.Region)
	})

	t.Run("missing secret key", func(t *testing.T) {
		s3 := S3SourceConfig{}
		err := applyS3Credentials(&s3, &VaultSecret{Data: map[string]any{"access_key_id": "id"}})
		assert.Error(t, err)
		assert.Empty(t, s3.AccessKeyID)
	})
}

func TestApplyAPIKeys(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		want    []string
		wantErr bool
	}{
		{"comma separated", map[string]any{"keys": " a , b,,c "}, []string{"a", "b", "c"}, false},
		{"empty keeps configured", map[string]any{"keys": " , "}, []string{"configured"}, false},
		{"missing field", map[string]any{"other": "x"}, []string{"configured"}, true},
		{"not a string", map[string]any{"keys": []string{"a"}}, []string{"configured"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := ServerConfig{APIKeys: []string{"configured"}}
			err := applyAPIKeys(&server, &VaultSecret{Data: tt.data})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, server.APIKeys)
		})
	}
}

func TestApplyTLSContent(t *testing.T) {
	tls := TLSConfig{CertContent: "old-cert", CAContent: "old-ca"}
	applyTLSContent(&tls, &VaultSecret{Data: map[string]any{
		"cert": "new-cert",
		"key":  "new-key",
		"ca":   "",
		"old":  123,
	}})

	assert.Equal(t, "new-cert", tls.CertContent)
	assert.Equal(t, "new-key", tls.KeyContent)
	assert.Equal(t, "old-ca", tls.CAContent, "empty fields keep the configured value")
}

func TestSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "missing", input: nil, expected: 0},
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "json number", input: json.Number("7"), expected: 7},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := secretVersion(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestVaultClientReadSecret(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"secret/data/resumescan/api-keys": {"keys": "a,b"},
	})

	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "root-token"}, nil)
	require.NoError(t, err)

	secret, err := client.ReadSecret("secret/data/resumescan/api-keys")
	require.NoError(t, err)
	assert.Equal(t, "a,b", secret.String("keys"))
	assert.Equal(t, int64(3), secret.Version)

	_, err = client.ReadSecret("secret/data/absent")
	assert.ErrorContains(t, err, "secret not found")
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token", TokenFile: "/ignored"})
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		assert.ErrorContains(t, err, "vault token is required")
	})
}
