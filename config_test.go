package gohris

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Bmat321/gohris/rest"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(*Config) {},
			wantValid: true,
		},
		{
			name: "admin identifier empty",
			mutate: func(c *Config) {
				c.Manager.AdminIdentifier = "  "
			},
			wantValid: false,
		},
		{
			name: "admin identifier mixed case",
			mutate: func(c *Config) {
				c.Manager.AdminIdentifier = "Admin@hris.com"
			},
			wantValid: false,
		},
		{
			name: "rest backend without base url",
			mutate: func(c *Config) {
				c.Manager.NonAdminBackend = BackendREST
			},
			wantValid: false,
		},
		{
			name: "rest backend with base url",
			mutate: func(c *Config) {
				c.Manager.NonAdminBackend = BackendREST
				c.REST.BaseURL = "https://hris.example.com/api"
			},
			wantValid: true,
		},
		{
			name: "negative mock latency",
			mutate: func(c *Config) {
				c.Mock.SimulatedLatency = -time.Second
			},
			wantValid: false,
		},
		{
			name: "zero 2fa ttl",
			mutate: func(c *Config) {
				c.TwoFactor.CodeTTL = 0
			},
			wantValid: false,
		},
		{
			name: "2fa digits out of range",
			mutate: func(c *Config) {
				c.TwoFactor.CodeDigits = 3
			},
			wantValid: false,
		},
		{
			name: "weak password memory",
			mutate: func(c *Config) {
				c.Password.Memory = 1024
			},
			wantValid: false,
		},
		{
			name: "audit enabled zero buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "invalid reauth policy",
			mutate: func(c *Config) {
				c.REST.ReauthPolicy = rest.ReauthPolicy(99)
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadFileConfigApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hris.yaml")

	content := []byte(`
admin_identifier: ADMIN@hris.com
non_admin_backend: rest
rest_base_url: https://hris.example.com/api
reauth_policy: refresh-once
rest_timeout: 5s
soap_endpoint: https://legacy.hris.example.com/soap
mock_latency: 50ms
require_mock_2fa: true
audit_enabled: true
storage_file: /tmp/hris-session.json
log_format: json
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig error: %v", err)
	}

	cfg, err := fc.Apply(defaultConfig())
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if cfg.Manager.AdminIdentifier != "admin@hris.com" {
		t.Fatalf("admin identifier not lowercased: %q", cfg.Manager.AdminIdentifier)
	}
	if cfg.Manager.NonAdminBackend != BackendREST {
		t.Fatal("expected REST backend")
	}
	if cfg.REST.ReauthPolicy != rest.PolicyRefreshOnce {
		t.Fatal("expected refresh-once policy")
	}
	if cfg.REST.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.REST.Timeout)
	}
	if cfg.Mock.SimulatedLatency != 50*time.Millisecond {
		t.Fatalf("unexpected latency %v", cfg.Mock.SimulatedLatency)
	}
	if !cfg.TwoFactor.RequireForMock {
		t.Fatal("expected mock 2fa enabled")
	}
	if !cfg.Audit.Enabled {
		t.Fatal("expected audit enabled")
	}
	if fc.StorageFile != "/tmp/hris-session.json" {
		t.Fatalf("unexpected storage file %q", fc.StorageFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("applied config should validate: %v", err)
	}
}

func TestFileConfigRejectsUnknownEnums(t *testing.T) {
	if _, err := (FileConfig{NonAdminBackend: "ldap"}).Apply(defaultConfig()); err == nil {
		t.Fatal("expected unknown backend error")
	}
	if _, err := (FileConfig{ReauthPolicy: "retry-forever"}).Apply(defaultConfig()); err == nil {
		t.Fatal("expected unknown policy error")
	}
	if _, err := (FileConfig{MockLatency: "fast"}).Apply(defaultConfig()); err == nil {
		t.Fatal("expected duration parse error")
	}
}

func TestLoadFileConfigMissingFile(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
