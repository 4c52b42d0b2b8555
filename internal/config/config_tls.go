package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS
	if err := validateTLSMode(tls); err != nil {
		return err
	}
	return validateTLSVersion(tls)
}

func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		return firstError(
			requirePair(tls.CertFile, tls.CertContent, tls.KeyFile, tls.KeyContent, "server mode"),
			exclusive("certFile", tls.CertFile, "certContent", tls.CertContent),
			exclusive("keyFile", tls.KeyFile, "keyContent", tls.KeyContent),
		)
	case "mutual":
		return firstError(
			requirePair(tls.CertFile, tls.CertContent, tls.KeyFile, tls.KeyContent, "mutual mode"),
			requireCA(tls),
			exclusive("certFile", tls.CertFile, "certContent", tls.CertContent),
			exclusive("keyFile", tls.KeyFile, "keyContent", tls.KeyContent),
			exclusive("caFile", tls.CAFile, "caContent", tls.CAContent),
			validateClientAuthPolicy(tls.ClientAuthPolicy),
		)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

// requirePair checks that a certificate and its key each come from a file or inline content
func requirePair(certFile, certContent, keyFile, keyContent, mode string) error {
	if (certFile == "" && certContent == "") || (keyFile == "" && keyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s (provide either files or content)", mode)
	}
	return nil
}

func requireCA(tls TLSConfig) error {
	if tls.CAFile == "" && tls.CAContent == "" {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	return nil
}

// exclusive rejects settings where both the file and the content form are set
func exclusive(fileKey, file, contentKey, content string) error {
	if file != "" && content != "" {
		return fmt.Errorf("cannot specify both %s and %s - choose one", fileKey, contentKey)
	}
	return nil
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
