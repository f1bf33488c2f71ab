package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Import.MaxConcurrent != 5 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 5)
	}
	if cfg.Import.MaxFileSize != 0 {
		t.Errorf("Import.MaxFileSize = %d, want 0", cfg.Import.MaxFileSize)
	}
	if cfg.Submit.Mode != SubmitModeSimulated {
		t.Errorf("Submit.Mode = %q, want %q", cfg.Submit.Mode, SubmitModeSimulated)
	}
	if cfg.Submit.Delay != 1500*time.Millisecond {
		t.Errorf("Submit.Delay = %v, want 1.5s", cfg.Submit.Delay)
	}
	if cfg.Submit.SuccessRate != 0.8 {
		t.Errorf("Submit.SuccessRate = %v, want 0.8", cfg.Submit.SuccessRate)
	}
	if cfg.Dashboard.ProfileSaveDelay != time.Second {
		t.Errorf("Dashboard.ProfileSaveDelay = %v, want 1s", cfg.Dashboard.ProfileSaveDelay)
	}
	if cfg.Session.IdleTTL != 30*time.Minute {
		t.Errorf("Session.IdleTTL = %v, want 30m", cfg.Session.IdleTTL)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SUBMIT_SUCCESS_RATE", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Import.MaxConcurrent != 10 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Submit.SuccessRate != 1 {
		t.Errorf("Submit.SuccessRate = %v, want 1", cfg.Submit.SuccessRate)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("IMPORT_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Import.MaxWaitTime != 90*time.Second {
		t.Errorf("Import.MaxWaitTime = %v, want %v", cfg.Import.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("IMPORT_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for unparsable duration")
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoad_HTTPModeRequiresEndpoint(t *testing.T) {
	t.Setenv("SUBMIT_MODE", "http")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for http mode without endpoint")
	}
	if !strings.Contains(err.Error(), "SUBMIT_ENDPOINT") {
		t.Errorf("error should mention SUBMIT_ENDPOINT: %v", err)
	}

	t.Setenv("SUBMIT_ENDPOINT", "https://ingest.example.com/datasets")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Minute},
		Import:    ImportConfig{MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Minute},
		Submit:    SubmitConfig{Mode: SubmitModeSimulated, Delay: time.Second, SuccessRate: 0.8},
		Session:   SessionConfig{IdleTTL: time.Minute, SweepInterval: time.Second},
		Dashboard: DashboardConfig{ProfileSaveDelay: time.Second},
		Rate:      RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ImportLimit: 10},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero concurrency", func(c *Config) { c.Import.MaxConcurrent = 0 }, "IMPORT_MAX_CONCURRENT"},
		{"negative size", func(c *Config) { c.Import.MaxFileSize = -1 }, "IMPORT_MAX_FILE_SIZE"},
		{"rate above one", func(c *Config) { c.Submit.SuccessRate = 1.5 }, "SUBMIT_SUCCESS_RATE"},
		{"unknown mode", func(c *Config) { c.Submit.Mode = "queue" }, "SUBMIT_MODE"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"bad proxy", func(c *Config) { c.Security.TrustedProxies = []string{"10.0.0.1", "proxy.local"} }, "TRUSTED_PROXIES"},
		{"rate limit disabled ignores limits", func(c *Config) {
			c.Rate = RateLimitConfig{Enabled: false}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksToken(t *testing.T) {
	cfg := validConfig()
	cfg.Submit.Token = "s3cr3t-token"

	str := cfg.String()
	if strings.Contains(str, "s3cr3t") {
		t.Error("String() should mask the submission token")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
