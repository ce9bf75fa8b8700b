package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// The credential store keeps one file per service under CredentialsDir,
// each holding a single "apikey=<value>" line. Keys set directly in the
// config file win over stored ones, so the store only answers when the
// config section leaves the key empty.

const credentialPrefix = "apikey="

func credentialPath(dir, service string) string {
	return filepath.Join(dir, service+".key")
}

// ReadAPIKey returns the stored API key for a service, or "" when no
// credential file exists or it is malformed.
func ReadAPIKey(dir, service string) string {
	data, err := os.ReadFile(credentialPath(dir, service))
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, credentialPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, credentialPrefix))
}

// WriteAPIKey stores an API key for a service, creating the credentials
// directory when missing. The file is written 0600 since it holds a secret.
func WriteAPIKey(dir, service, key string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}
	line := credentialPrefix + key + "\n"
	if err := os.WriteFile(credentialPath(dir, service), []byte(line), 0o600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	return nil
}

// APIKeyFor resolves the effective API key for a service: the config-file
// value when set, otherwise the credential store.
func (c *Config) APIKeyFor(service string) string {
	var configured string
	switch service {
	case "subdl":
		configured = c.Services.SubDL.APIKey
	case "opensubtitles":
		configured = c.Services.OpenSubtitles.APIKey
	}
	if configured != "" {
		return configured
	}
	return ReadAPIKey(c.CredentialsDir, service)
}
