// Package brainsurgeon ties the session-log engine together: it loads
// service configuration and exposes the top-level construction helpers
// used by cmd/brainsurgeond.
package brainsurgeon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultListenAddr    = ":8654"
	DefaultAutoRefreshMS = 10000
)

// Config holds service-level configuration. Values come from an optional
// yaml file, overridden by environment variables.
type Config struct {
	// Root is the OpenClaw data directory holding agents/ and trash/.
	// Defaults to ~/.openclaw.
	Root string `yaml:"root"`

	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// APIKeys is the set of accepted X-API-Key values. Empty means
	// authentication is disabled (local development).
	APIKeys []string `yaml:"api_keys"`

	// ReadOnly disables every destructive endpoint.
	ReadOnly bool `yaml:"readonly"`

	// CORSOrigins is the allowed origin list for browser clients.
	CORSOrigins []string `yaml:"cors_origins"`

	// AutoRefreshMS is the auto-refresh interval advertised to the UI.
	AutoRefreshMS int `yaml:"auto_refresh_ms"`

	// GatewayBinary is the CLI used to restart the gateway.
	// Defaults to "openclaw".
	GatewayBinary string `yaml:"gateway_binary"`
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:    DefaultListenAddr,
		CORSOrigins:   []string{"http://localhost:8654", "http://127.0.0.1:8654"},
		AutoRefreshMS: DefaultAutoRefreshMS,
	}
}

// LoadConfig reads the yaml config file at path (a missing file falls
// back to defaults) and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills in zero values with defaults, expanding ~ in Root.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = "~/.openclaw"
	}
	if strings.HasPrefix(c.Root, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			c.Root = filepath.Join(home, strings.TrimPrefix(c.Root, "~"))
		}
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.AutoRefreshMS <= 0 {
		c.AutoRefreshMS = DefaultAutoRefreshMS
	}
	if c.GatewayBinary == "" {
		c.GatewayBinary = "openclaw"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: root directory is required", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENCLAW_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("BRAINSURGEON_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("BRAINSURGEON_API_KEYS"); v != "" {
		c.APIKeys = splitNonEmpty(v)
	}
	if v := os.Getenv("BRAINSURGEON_READONLY"); v != "" {
		c.ReadOnly = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BRAINSURGEON_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitNonEmpty(v)
	}
	if v := os.Getenv("BRAINSURGEON_AUTO_REFRESH_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.AutoRefreshMS = ms
		}
	}
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
