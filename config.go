package gohris

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Bmat321/gohris/rest"
)

// Config defines a public type used by gohris APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Manager   ManagerConfig
	SOAP      SOAPConfig
	REST      RESTConfig
	Mock      MockConfig
	TwoFactor TwoFactorConfig
	Password  PasswordConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
MANAGER CONFIG
====================================
*/

// BackendKind selects the credential backend used for non-admin logins.
type BackendKind int

const (
	// BackendMock is an exported constant or variable used by the session manager.
	BackendMock BackendKind = iota
	// BackendREST is an exported constant or variable used by the session manager.
	BackendREST
)

// ManagerConfig defines a public type used by gohris APIs.
//
// ManagerConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ManagerConfig struct {
	// AdminIdentifier routes to the SOAP backend. Matched after
	// lowercasing and trimming the login email.
	AdminIdentifier   string
	NonAdminBackend   BackendKind
	ValidateOnRestore bool
}

/*
====================================
SOAP CONFIG
====================================
*/

// SOAPConfig defines a public type used by gohris APIs.
//
// SOAPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SOAPConfig struct {
	Endpoint  string
	Namespace string
}

/*
====================================
REST CONFIG
====================================
*/

// RESTConfig defines a public type used by gohris APIs.
//
// RESTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RESTConfig struct {
	BaseURL      string
	ReauthPolicy rest.ReauthPolicy
	Timeout      time.Duration
}

/*
====================================
MOCK CONFIG
====================================
*/

// MockConfig defines a public type used by gohris APIs.
//
// MockConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MockConfig struct {
	// SimulatedLatency delays each Authenticate call so interactive
	// surfaces behave the way they would against a remote backend.
	// Cancelled by the caller's context.
	SimulatedLatency time.Duration
	SeedDemoUsers    bool
}

/*
====================================
TWO FACTOR CONFIG
====================================
*/

// TwoFactorConfig defines a public type used by gohris APIs.
//
// TwoFactorConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TwoFactorConfig struct {
	RequireForMock bool
	CodeTTL        time.Duration
	MaxAttempts    int
	CodeDigits     int

	// Deliver receives the issued code for out-of-band delivery. The
	// demo store prints nothing when nil.
	Deliver func(email, code string) `yaml:"-"`
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by gohris APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// AuditConfig defines a public type used by gohris APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by gohris APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the documented default configuration. Callers
// mutate the copy and hand it to [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Manager: ManagerConfig{
			AdminIdentifier:   "admin@hris.com",
			NonAdminBackend:   BackendMock,
			ValidateOnRestore: false,
		},
		SOAP: SOAPConfig{
			Namespace: "http://hris.example.com/soap",
		},
		REST: RESTConfig{
			ReauthPolicy: rest.PolicyForceLogout,
			Timeout:      15 * time.Second,
		},
		Mock: MockConfig{
			SimulatedLatency: 800 * time.Millisecond,
			SeedDemoUsers:    true,
		},
		TwoFactor: TwoFactorConfig{
			RequireForMock: false,
			CodeTTL:        5 * time.Minute,
			MaxAttempts:    5,
			CodeDigits:     6,
		},
		Password: PasswordConfig{
			Memory:      16 * 1024,
			Time:        2,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Manager
	if strings.TrimSpace(c.Manager.AdminIdentifier) == "" {
		return errors.New("Manager AdminIdentifier must not be empty")
	}
	if c.Manager.AdminIdentifier != strings.ToLower(c.Manager.AdminIdentifier) {
		return errors.New("Manager AdminIdentifier must be lowercase")
	}
	switch c.Manager.NonAdminBackend {
	case BackendMock, BackendREST:
		// valid
	default:
		return errors.New("Manager NonAdminBackend is invalid")
	}
	if c.Manager.NonAdminBackend == BackendREST && c.REST.BaseURL == "" {
		return errors.New("REST BaseURL required when NonAdminBackend is BackendREST")
	}

	// REST
	if c.REST.Timeout < 0 {
		return errors.New("REST Timeout must be >= 0")
	}
	switch c.REST.ReauthPolicy {
	case rest.PolicyForceLogout, rest.PolicyRefreshOnce:
		// valid
	default:
		return errors.New("REST ReauthPolicy is invalid")
	}

	// Mock
	if c.Mock.SimulatedLatency < 0 {
		return errors.New("Mock SimulatedLatency must be >= 0")
	}

	// Two factor
	if c.TwoFactor.CodeTTL <= 0 {
		return errors.New("TwoFactor CodeTTL must be > 0")
	}
	if c.TwoFactor.MaxAttempts <= 0 {
		return errors.New("TwoFactor MaxAttempts must be > 0")
	}
	if c.TwoFactor.CodeDigits < 4 || c.TwoFactor.CodeDigits > 10 {
		return errors.New("TwoFactor CodeDigits must be between 4 and 10")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}

/*
====================================
FILE CONFIG
====================================
*/

// FileConfig is the YAML-friendly mirror of [Config] used by CLI and
// kiosk deployments. Durations are written as Go duration strings
// ("800ms", "5m").
type FileConfig struct {
	AdminIdentifier   string `yaml:"admin_identifier"`
	NonAdminBackend   string `yaml:"non_admin_backend"` // "mock" or "rest"
	ValidateOnRestore bool   `yaml:"validate_on_restore"`

	SOAPEndpoint  string `yaml:"soap_endpoint"`
	SOAPNamespace string `yaml:"soap_namespace"`

	RESTBaseURL  string `yaml:"rest_base_url"`
	ReauthPolicy string `yaml:"reauth_policy"` // "force-logout" or "refresh-once"
	RESTTimeout  string `yaml:"rest_timeout"`

	MockLatency    string `yaml:"mock_latency"`
	RequireMock2FA bool   `yaml:"require_mock_2fa"`

	AuditEnabled bool `yaml:"audit_enabled"`

	// Consumed by the CLI rather than the Manager.
	StorageFile string `yaml:"storage_file"`
	LogFormat   string `yaml:"log_format"` // "text" or "json"
	LogLevel    string `yaml:"log_level"`
}

// LoadFileConfig reads and parses a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}

	return fc, nil
}

// Apply overlays the file values onto cfg and returns the result. Empty
// file fields leave the corresponding cfg fields untouched.
func (fc FileConfig) Apply(cfg Config) (Config, error) {
	if fc.AdminIdentifier != "" {
		cfg.Manager.AdminIdentifier = strings.ToLower(strings.TrimSpace(fc.AdminIdentifier))
	}
	switch fc.NonAdminBackend {
	case "":
	case "mock":
		cfg.Manager.NonAdminBackend = BackendMock
	case "rest":
		cfg.Manager.NonAdminBackend = BackendREST
	default:
		return cfg, fmt.Errorf("unknown non_admin_backend %q", fc.NonAdminBackend)
	}
	cfg.Manager.ValidateOnRestore = fc.ValidateOnRestore

	if fc.SOAPEndpoint != "" {
		cfg.SOAP.Endpoint = fc.SOAPEndpoint
	}
	if fc.SOAPNamespace != "" {
		cfg.SOAP.Namespace = fc.SOAPNamespace
	}

	if fc.RESTBaseURL != "" {
		cfg.REST.BaseURL = fc.RESTBaseURL
	}
	switch fc.ReauthPolicy {
	case "":
	case "force-logout":
		cfg.REST.ReauthPolicy = rest.PolicyForceLogout
	case "refresh-once":
		cfg.REST.ReauthPolicy = rest.PolicyRefreshOnce
	default:
		return cfg, fmt.Errorf("unknown reauth_policy %q", fc.ReauthPolicy)
	}
	if fc.RESTTimeout != "" {
		d, err := time.ParseDuration(fc.RESTTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parse rest_timeout: %w", err)
		}
		cfg.REST.Timeout = d
	}

	if fc.MockLatency != "" {
		d, err := time.ParseDuration(fc.MockLatency)
		if err != nil {
			return cfg, fmt.Errorf("parse mock_latency: %w", err)
		}
		cfg.Mock.SimulatedLatency = d
	}
	cfg.TwoFactor.RequireForMock = fc.RequireMock2FA

	cfg.Audit.Enabled = fc.AuditEnabled

	return cfg, nil
}
