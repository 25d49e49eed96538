package gohris

import (
	"errors"
	"net/http"
	"time"

	"github.com/Bmat321/gohris/rest"
	"github.com/Bmat321/gohris/soap"
	"github.com/Bmat321/gohris/storage"
)

// Manager satisfies the REST client's token plumbing.
var (
	_ rest.TokenSource = (*Manager)(nil)
	_ rest.TokenSink   = (*Manager)(nil)
)

// Builder defines a public type used by gohris APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store      storage.Store
	soapClient *soap.Client
	restClient *rest.Client
	creds      CredentialStore
	auditSink  AuditSink
	httpClient *http.Client
	clock      func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStorage describes the withstorage operation and its observable behavior.
//
// Absent a store, Build falls back to [storage.NewMemory] and sessions
// do not survive the process.
func (b *Builder) WithStorage(store storage.Store) *Builder {
	b.store = store
	return b
}

// WithSOAPClient injects a preconfigured SOAP client, overriding
// [SOAPConfig].
func (b *Builder) WithSOAPClient(client *soap.Client) *Builder {
	b.soapClient = client
	return b
}

// WithRESTClient injects a preconfigured REST client, overriding
// [RESTConfig]. The caller owns its token wiring in that case.
func (b *Builder) WithRESTClient(client *rest.Client) *Builder {
	b.restClient = client
	return b
}

// WithCredentialStore describes the withcredentialstore operation and its observable behavior.
func (b *Builder) WithCredentialStore(creds CredentialStore) *Builder {
	b.creds = creds
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithHTTPClient sets the transport shared by backend clients Build
// constructs itself.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithClock overrides the time source. Tests use it to drive token
// expiry deterministically.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		store = storage.NewMemory()
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	manager := &Manager{
		config:  cfg,
		storage: store,
		clock:   clock,
		state:   StateUnauthenticated,
	}

	// -------- SOAP CLIENT --------
	soapClient := b.soapClient
	if soapClient == nil && cfg.SOAP.Endpoint != "" {
		var err error
		soapClient, err = soap.NewClient(soap.Config{
			Endpoint:   cfg.SOAP.Endpoint,
			Namespace:  cfg.SOAP.Namespace,
			HTTPClient: b.httpClient,
			Tokens:     store,
		})
		if err != nil {
			return nil, err
		}
	}
	manager.soapClient = soapClient

	// -------- REST CLIENT --------
	restClient := b.restClient
	if restClient == nil && cfg.REST.BaseURL != "" {
		httpClient := b.httpClient
		if httpClient == nil && cfg.REST.Timeout > 0 {
			httpClient = &http.Client{Timeout: cfg.REST.Timeout}
		}

		var err error
		restClient, err = rest.NewClient(rest.Config{
			BaseURL:        cfg.REST.BaseURL,
			Policy:         cfg.REST.ReauthPolicy,
			HTTPClient:     httpClient,
			Tokens:         manager,
			OnForcedLogout: manager.handleForcedLogout,
		})
		if err != nil {
			return nil, err
		}
	}
	manager.restClient = restClient

	// -------- CREDENTIAL STORE --------
	creds := b.creds
	if creds == nil {
		var err error
		creds, err = NewMockCredentialStore(cfg.Mock, cfg.Password)
		if err != nil {
			return nil, err
		}
	}
	manager.creds = creds

	manager.challenges = newTwoFactorStore(cfg.TwoFactor)
	manager.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	manager.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return manager, nil
}
