package config

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if a value cannot be parsed or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	// Each section is processed without a prefix so the tag names are the
	// exact variable names.
	sections := []any{
		&cfg.Server,
		&cfg.Import,
		&cfg.Submit,
		&cfg.Session,
		&cfg.Dashboard,
		&cfg.Rate,
		&cfg.Security,
		&cfg.Logging,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Submit.Mode = strings.ToLower(strings.TrimSpace(c.Submit.Mode))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Security.TrustedProxies = trimList(c.Security.TrustedProxies)
	c.Security.AllowedOrigins = trimList(c.Security.AllowedOrigins)
}

// trimList drops blank entries and surrounding whitespace from a
// comma-separated list.
func trimList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Import validation
	if c.Import.MaxFileSize < 0 {
		errs = append(errs, "IMPORT_MAX_FILE_SIZE must be non-negative")
	}
	if c.Import.MaxConcurrent <= 0 {
		errs = append(errs, "IMPORT_MAX_CONCURRENT must be positive")
	}
	if c.Import.MaxWaitTime <= 0 {
		errs = append(errs, "IMPORT_MAX_WAIT_TIME must be positive")
	}
	if c.Import.Timeout < 0 {
		errs = append(errs, "IMPORT_TIMEOUT must be non-negative")
	}

	// Submission validation
	switch c.Submit.Mode {
	case SubmitModeSimulated:
		if c.Submit.Delay < 0 {
			errs = append(errs, "SUBMIT_DELAY must be non-negative")
		}
		if c.Submit.SuccessRate < 0 || c.Submit.SuccessRate > 1 {
			errs = append(errs, fmt.Sprintf("SUBMIT_SUCCESS_RATE (%g) must be between 0 and 1", c.Submit.SuccessRate))
		}
	case SubmitModeHTTP:
		if c.Submit.Endpoint == "" {
			errs = append(errs, "SUBMIT_ENDPOINT is required when SUBMIT_MODE is http")
		}
		if c.Submit.HTTPTimeout <= 0 {
			errs = append(errs, "SUBMIT_HTTP_TIMEOUT must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("SUBMIT_MODE (%q) must be one of: simulated, http", c.Submit.Mode))
	}

	// Session validation
	if c.Session.IdleTTL <= 0 {
		errs = append(errs, "SESSION_IDLE_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, "SESSION_SWEEP_INTERVAL must be positive")
	}

	if c.Dashboard.ProfileSaveDelay < 0 {
		errs = append(errs, "DASHBOARD_PROFILE_SAVE_DELAY must be non-negative")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.ImportLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_IMPORT must be positive when rate limiting is enabled")
	}

	// Security validation
	for _, entry := range c.Security.TrustedProxies {
		_, perr := netip.ParsePrefix(entry)
		_, aerr := netip.ParseAddr(entry)
		if perr != nil && aerr != nil {
			errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not a valid CIDR or IP", entry))
		}
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The submission token is masked.
func (c *Config) String() string {
	token := ""
	if c.Submit.Token != "" {
		token = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Import: {MaxFileSize: %d, MaxConcurrent: %d, Timeout: %s}, ",
		c.Import.MaxFileSize, c.Import.MaxConcurrent, c.Import.Timeout))
	b.WriteString(fmt.Sprintf("Submit: {Mode: %q, Endpoint: %q, Token: %q}, ",
		c.Submit.Mode, c.Submit.Endpoint, token))
	b.WriteString(fmt.Sprintf("Session: {IdleTTL: %s}, ", c.Session.IdleTTL))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
