package ui

// Default configuration values.
const (
	DefaultAutoRefreshMS = 10000
)

// Config holds UI package configuration.
type Config struct {
	// APIKeys is the set of accepted X-API-Key values.
	// Empty leaves the API open (local development).
	APIKeys []string

	// ReadOnly disables destructive endpoints.
	// Useful for monitoring-only deployments.
	ReadOnly bool

	// CORSOrigins is the allowed origin list for browser clients.
	CORSOrigins []string

	// AutoRefreshMS is the auto-refresh interval advertised to clients.
	// Defaults to 10 seconds.
	AutoRefreshMS int

	// Logger for structured logging.
	// If nil, logging is disabled.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		AutoRefreshMS: DefaultAutoRefreshMS,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.AutoRefreshMS == 0 {
		c.AutoRefreshMS = DefaultAutoRefreshMS
	}
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.AutoRefreshMS < 0 {
		return ErrInvalidConfig
	}
	return nil
}
