// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session token goes to the
// configured store. Environment variables override file values.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"needles/cli/internal/xdg"
)

// Defaults.
const (
	DefaultBaseURL    = "https://needles-v1.onrender.com"
	DefaultEntryRoute = "/login"
	DefaultTimeout    = 30
)

// Environment overrides.
const (
	EnvBaseURL         = "NEEDLES_BASE_URL"
	EnvLogLevel        = "NEEDLES_LOG_LEVEL"
	EnvStore           = "NEEDLES_STORE"
	EnvStoreDSN        = "NEEDLES_STORE_DSN"
	EnvStoreNamespace  = "NEEDLES_STORE_NAMESPACE"
	EnvTimeoutSeconds  = "NEEDLES_TIMEOUT_SECONDS"
	EnvKeyringPassword = "NEEDLES_KEYRING_PASSWORD"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel       string      `json:"log_level"`
	BaseURL        string      `json:"base_url"`
	EntryRoute     string      `json:"entry_route"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Store          StoreConfig `json:"store"`
}

// StoreConfig selects the Persistent Token Store backend.
type StoreConfig struct {
	// Backend is one of "keyring", "file", "memory", "postgres".
	Backend   string `json:"backend"`
	DSN       string `json:"dsn,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       "info",
		BaseURL:        DefaultBaseURL,
		EntryRoute:     DefaultEntryRoute,
		TimeoutSeconds: DefaultTimeout,
		Store:          StoreConfig{Backend: "keyring", Namespace: "default"},
	}
}

// Timeout returns the HTTP client timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration from p (or the XDG default when p is empty);
// a missing file yields defaults. Environment overrides are applied last.
func Load(p string) (Config, error) {
	c := Default()
	if p == "" {
		var err error
		if p, err = Path(); err != nil {
			return c, err
		}
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	applyEnv(&c)
	c.normalize()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(p string, c Config) error {
	if p == "" {
		var err error
		if p, err = Path(); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func applyEnv(c *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvStoreNamespace); v != "" {
		c.Store.Namespace = v
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.EntryRoute == "" {
		c.EntryRoute = DefaultEntryRoute
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeout
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = "keyring"
	}
}
