// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Import    ImportConfig
	Submit    SubmitConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `envconfig:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// ImportConfig holds file import settings.
type ImportConfig struct {
	// MaxFileSize caps the bytes read from one file; 0 disables the cap (default: 0)
	MaxFileSize int64 `envconfig:"IMPORT_MAX_FILE_SIZE" default:"0"`

	// MaxConcurrent is the maximum number of imports running at once (default: 5)
	MaxConcurrent int `envconfig:"IMPORT_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an import slot (default: 30s)
	MaxWaitTime time.Duration `envconfig:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds the submission step; 0 waits for the submitter (default: 2m)
	Timeout time.Duration `envconfig:"IMPORT_TIMEOUT" default:"2m"`
}

// Submission modes.
const (
	SubmitModeSimulated = "simulated"
	SubmitModeHTTP      = "http"
)

// SubmitConfig selects and tunes the submission backend.
type SubmitConfig struct {
	// Mode is "simulated" or "http" (default: simulated)
	Mode string `envconfig:"SUBMIT_MODE" default:"simulated"`

	// Delay is the simulated round-trip (default: 1500ms)
	Delay time.Duration `envconfig:"SUBMIT_DELAY" default:"1500ms"`

	// SuccessRate is the simulated success probability (default: 0.8)
	SuccessRate float64 `envconfig:"SUBMIT_SUCCESS_RATE" default:"0.8"`

	// Endpoint receives the dataset as JSON in http mode
	Endpoint string `envconfig:"SUBMIT_ENDPOINT"`

	// Token is sent as a bearer token in http mode
	Token string `envconfig:"SUBMIT_TOKEN"`

	// HTTPTimeout is the client timeout in http mode (default: 30s)
	HTTPTimeout time.Duration `envconfig:"SUBMIT_HTTP_TIMEOUT" default:"30s"`
}

// SessionConfig holds page instance settings.
type SessionConfig struct {
	// IdleTTL is how long an untouched page instance lives (default: 30m)
	IdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`

	// SweepInterval is how often idle instances are evicted (default: 1m)
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`

	// CookieSecure marks the session cookie Secure (default: false)
	CookieSecure bool `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
}

// DashboardConfig holds presentational settings.
type DashboardConfig struct {
	// ProfileSaveDelay is the pretend round-trip of the profile form (default: 1s)
	ProfileSaveDelay time.Duration `envconfig:"DASHBOARD_PROFILE_SAVE_DELAY" default:"1s"`

	// ChartTheme is the go-echarts theme name (default: westeros)
	ChartTheme string `envconfig:"DASHBOARD_CHART_THEME" default:"westeros"`

	// ChartAssetsHost overrides where the echarts scripts are loaded from
	ChartAssetsHost string `envconfig:"DASHBOARD_CHART_ASSETS_HOST"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `envconfig:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ImportLimit is requests per minute for the import endpoint (default: 10)
	ImportLimit int `envconfig:"RATE_LIMIT_IMPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `envconfig:"SECURITY_ENABLE_CSP" default:"true"`

	// AllowedOrigins is a comma-separated CORS allow list for /api (default: none)
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// ForceHTTPS redirects plain HTTP and sends HSTS (default: false)
	ForceHTTPS bool `envconfig:"SECURITY_FORCE_HTTPS" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
