package gohris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Bmat321/gohris/normalize"
	"github.com/Bmat321/gohris/rest"
	"github.com/Bmat321/gohris/role"
	"github.com/Bmat321/gohris/soap"
	"github.com/Bmat321/gohris/storage"
	"github.com/Bmat321/gohris/token"
)

// Manager is the client-side session authority. It routes logins to the
// right backend, holds the active session, persists it through a
// [storage.Store], and tears everything down on logout.
//
// All methods are safe for concurrent use.
type Manager struct {
	config     Config
	storage    storage.Store
	soapClient *soap.Client
	restClient *rest.Client
	creds      CredentialStore
	challenges *twoFactorStore
	audit      *auditDispatcher
	metrics    *Metrics
	clock      func() time.Time

	mu      sync.RWMutex
	state   AuthState
	session *Session
	pending *pendingLogin
}

// pendingLogin parks a password-accepted login until its second factor
// verifies.
type pendingLogin struct {
	email       string
	source      SessionSource
	challengeID string
}

/*
====================================
LOGIN
====================================
*/

// Login authenticates email/password against the backend the identifier
// routes to. The admin identifier goes to SOAP; everyone else goes to
// the mock store or the REST API depending on configuration.
//
// A session active when Login is called survives a failed attempt
// untouched. It is replaced, storage included, only once the new
// credentials authenticate or park on a second factor.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if m == nil || m.storage == nil {
		return nil, ErrManagerNotReady
	}

	email = strings.ToLower(strings.TrimSpace(email))
	start := m.clock()

	m.mu.Lock()
	prevState := m.state
	m.state = StateAuthenticating
	m.mu.Unlock()

	var (
		result *LoginResult
		err    error
	)

	switch {
	case email == m.config.Manager.AdminIdentifier:
		result, err = m.loginSOAP(ctx, email, password)
	case m.config.Manager.NonAdminBackend == BackendREST:
		result, err = m.loginREST(ctx, email, password)
	default:
		result, err = m.loginMock(ctx, email, password)
	}

	if err != nil {
		m.mu.Lock()
		if m.state == StateAuthenticating {
			m.state = prevState
		}
		m.mu.Unlock()

		m.metrics.Inc(MetricLoginFailure)
		m.emitAudit(ctx, auditEventLoginFailure, &Session{Email: email}, false, err, nil)
		return nil, err
	}

	m.metrics.Observe(MetricLoginLatency, m.clock().Sub(start))

	if result.TwoFactorRequired {
		m.metrics.Inc(MetricTwoFactorIssued)
		m.emitAudit(ctx, auditEventTwoFactorIssued, &Session{Email: email}, true, nil, nil)
		return result, nil
	}

	m.metrics.Inc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventLoginSuccess, result.Session, true, nil, nil)
	return result, nil
}

func (m *Manager) loginSOAP(ctx context.Context, email, password string) (*LoginResult, error) {
	if m.soapClient == nil {
		return nil, ErrManagerNotReady
	}

	user, err := m.soapClient.LoginUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	// Exactly one namespace holds a session. The SOAP login wrote its
	// own keys; any leftover local-namespace keys go.
	_ = m.storage.Clear(ctx, storage.KeyMockToken, storage.KeyMockUser, storage.KeyRefreshToken)

	r, parseErr := role.Parse(user.Role)
	if parseErr != nil {
		// The reserved identifier is the SOAP administrator even when
		// the backend omits or mangles the role field.
		r = role.Admin
	}

	sess := &Session{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       r,
		Department: user.Department,
		Status:     normalize.Status(user.Status),
		Token:      user.Token,
		Source:     SourceSOAP,
	}

	m.commitSession(sess)
	return &LoginResult{Session: sess.clone()}, nil
}

func (m *Manager) loginMock(ctx context.Context, email, password string) (*LoginResult, error) {
	if m.creds == nil {
		return nil, ErrManagerNotReady
	}

	sess, err := m.creds.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess.Token = fmt.Sprintf("%s%d", token.MockPrefix, m.clock().UnixMilli())
	sess.Source = SourceMock

	if m.config.TwoFactor.RequireForMock {
		id, code, err := m.challenges.Issue(email, sess, m.clock())
		if err != nil {
			return nil, err
		}
		if deliver := m.config.TwoFactor.Deliver; deliver != nil {
			deliver(email, code)
		}

		m.mu.Lock()
		m.session = nil
		m.state = StateTwoFactorPending
		m.pending = &pendingLogin{email: email, source: SourceMock, challengeID: id}
		m.mu.Unlock()

		// The password checked out, so any previous session is gone;
		// the replacement is parked on the code.
		_ = m.storage.Clear(ctx, storage.SessionKeys()...)

		return &LoginResult{TwoFactorRequired: true, ChallengeID: id}, nil
	}

	if err := m.persistLocalSession(ctx, sess, ""); err != nil {
		return nil, err
	}

	m.commitSession(sess)
	return &LoginResult{Session: sess.clone()}, nil
}

func (m *Manager) loginREST(ctx context.Context, email, password string) (*LoginResult, error) {
	if m.restClient == nil {
		return nil, ErrManagerNotReady
	}

	resp, err := m.restClient.Login(ctx, email, password)
	if err != nil {
		return nil, mapRESTAuthError(err)
	}

	m.mu.Lock()
	m.session = nil
	m.state = StateTwoFactorPending
	m.pending = &pendingLogin{email: email, source: SourceREST, challengeID: resp.ChallengeID}
	m.mu.Unlock()

	// The password checked out, so any previous session is gone; the
	// replacement is parked on the code.
	_ = m.storage.Clear(ctx, storage.SessionKeys()...)

	// The REST backend never opens a session on password success alone.
	return &LoginResult{
		TwoFactorRequired: true,
		ChallengeID:       resp.ChallengeID,
		Message:           resp.Message,
	}, nil
}

/*
====================================
TWO FACTOR
====================================
*/

// VerifyTwoFactor completes a login parked by [Manager.Login]. On
// success the session is committed and persisted; wrong codes keep the
// challenge alive until its attempt budget runs out.
func (m *Manager) VerifyTwoFactor(ctx context.Context, email, code string) (*Session, error) {
	if m == nil || m.storage == nil {
		return nil, ErrManagerNotReady
	}

	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.RLock()
	pending := m.pending
	m.mu.RUnlock()

	if pending == nil || pending.email != email {
		return nil, ErrNoPendingChallenge
	}

	var (
		sess *Session
		err  error
	)

	if pending.source == SourceREST {
		sess, err = m.verifyTwoFactorREST(ctx, email, code)
	} else {
		sess, err = m.challenges.Verify(pending.challengeID, email, code, m.clock())
		if err == nil {
			err = m.persistLocalSession(ctx, sess, "")
		}
	}

	if err != nil {
		terminal := errors.Is(err, ErrTwoFactorExpired) || errors.Is(err, ErrTwoFactorAttemptsExceeded)
		if terminal {
			m.mu.Lock()
			m.pending = nil
			m.state = StateUnauthenticated
			m.mu.Unlock()
		}

		m.metrics.Inc(MetricTwoFactorFailure)
		m.emitAudit(ctx, auditEventTwoFactorFailure, &Session{Email: email}, false, err, nil)
		return nil, err
	}

	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()

	m.commitSession(sess)

	m.metrics.Inc(MetricTwoFactorSuccess)
	m.metrics.Inc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventTwoFactorSuccess, sess, true, nil, nil)
	return sess.clone(), nil
}

func (m *Manager) verifyTwoFactorREST(ctx context.Context, email, code string) (*Session, error) {
	payload, err := m.restClient.VerifyTwoFactor(ctx, email, code)
	if err != nil {
		// Only a 4xx means the code was rejected; backend failures
		// surface as-is.
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return nil, fmt.Errorf("%w: %s", ErrTwoFactorInvalid, apiErr.Message)
		}
		return nil, err
	}

	sess := sessionFromRESTUser(payload.User)
	sess.Email = email
	sess.Token = payload.Token
	sess.Source = SourceREST

	if err := m.persistLocalSession(ctx, sess, payload.RefreshToken); err != nil {
		return nil, err
	}

	return sess, nil
}

// sessionFromRESTUser lifts the loosely-shaped user document returned by
// the REST backend into a Session. Wrapped Mongo values are unwrapped.
func sessionFromRESTUser(user map[string]any) *Session {
	sess := &Session{}
	if user == nil {
		return sess
	}

	sess.ID = normalize.ID(firstValue(user, "_id", "id", "userId"))
	sess.FirstName, _ = user["firstName"].(string)
	sess.LastName, _ = user["lastName"].(string)
	if email, ok := user["email"].(string); ok {
		sess.Email = strings.ToLower(email)
	}
	if raw, ok := user["role"].(string); ok {
		sess.Role = role.ParseLenient(raw)
	} else {
		sess.Role = role.Employee
	}
	sess.Department, _ = user["department"].(string)
	sess.Status = normalize.Status(firstValue(user, "status"))

	return sess
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func mapRESTAuthError(err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
	}
	return err
}

/*
====================================
LOGOUT / RESTORE
====================================
*/

// Logout clears the in-memory session and removes every session key from
// storage, both local and SOAP namespaces. Memory state is dropped even
// when the storage sweep fails.
func (m *Manager) Logout(ctx context.Context) error {
	if m == nil || m.storage == nil {
		return ErrManagerNotReady
	}

	m.mu.Lock()
	sess := m.session
	m.dropStateLocked()
	m.mu.Unlock()

	err := m.storage.Clear(ctx, storage.SessionKeys()...)

	m.metrics.Inc(MetricLogout)
	m.emitAudit(ctx, auditEventLogout, sess, err == nil, err, nil)
	return err
}

// handleForcedLogout is wired as the REST client's OnForcedLogout hook
// and used when token validation rejects a restored session.
func (m *Manager) handleForcedLogout(ctx context.Context) {
	m.mu.Lock()
	sess := m.session
	m.dropStateLocked()
	m.mu.Unlock()

	err := m.storage.Clear(ctx, storage.SessionKeys()...)

	m.metrics.Inc(MetricForcedLogout)
	m.emitAudit(ctx, auditEventForcedLogout, sess, err == nil, err, nil)
}

func (m *Manager) dropStateLocked() {
	m.session = nil
	m.pending = nil
	m.state = StateLoggedOut
}

// Restore rebuilds the session from persisted state. The SOAP namespace
// wins when both are present. Expired or invalid material is swept from
// storage and [ErrSessionExpired] ([ErrNoStoredSession] when nothing was
// found) is returned.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	if m == nil || m.storage == nil {
		return nil, ErrManagerNotReady
	}

	if sess, err := m.restoreSOAP(ctx); err == nil && sess != nil {
		m.commitSession(sess)
		m.metrics.Inc(MetricSessionRestored)
		m.emitAudit(ctx, auditEventSessionRestored, sess, true, nil, nil)
		return sess.clone(), nil
	} else if err != nil {
		return nil, err
	}

	sess, err := m.restoreLocal(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoStoredSession) {
			m.metrics.Inc(MetricRestoreRejected)
			m.emitAudit(ctx, auditEventRestoreRejected, nil, false, err, nil)
		}
		return nil, err
	}

	m.commitSession(sess)
	m.metrics.Inc(MetricSessionRestored)
	m.emitAudit(ctx, auditEventSessionRestored, sess, true, nil, nil)
	return sess.clone(), nil
}

// restoreSOAP returns (nil, nil) when no SOAP session is stored.
func (m *Manager) restoreSOAP(ctx context.Context) (*Session, error) {
	tok, err := m.storage.Get(ctx, storage.KeySOAPToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	raw, err := m.storage.Get(ctx, storage.KeySOAPUser)
	if err != nil {
		// Token without a user document is unusable leftovers.
		_ = m.storage.Clear(ctx, storage.KeySOAPToken, storage.KeySOAPUser)
		return nil, nil
	}

	var user soap.UserRecord
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		_ = m.storage.Clear(ctx, storage.KeySOAPToken, storage.KeySOAPUser)
		return nil, nil
	}

	if m.config.Manager.ValidateOnRestore && m.soapClient != nil {
		valid, err := m.soapClient.ValidateToken(ctx, tok)
		if err == nil && !valid {
			m.metrics.Inc(MetricTokenRejected)
			m.emitAudit(ctx, auditEventTokenRejected, nil, false, nil, nil)
			_ = m.storage.Clear(ctx, storage.KeySOAPToken, storage.KeySOAPUser)
			return nil, nil
		}
		// Transport errors leave the stored session alone; offline
		// restarts should not wipe a valid session.
	}

	r, parseErr := role.Parse(user.Role)
	if parseErr != nil {
		r = role.Admin
	}

	return &Session{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       r,
		Department: user.Department,
		Status:     normalize.Status(user.Status),
		Token:      tok,
		Source:     SourceSOAP,
	}, nil
}

func (m *Manager) restoreLocal(ctx context.Context) (*Session, error) {
	tok, err := m.storage.Get(ctx, storage.KeyMockToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoStoredSession
		}
		return nil, err
	}

	if token.Expired(tok, m.clock()) {
		_ = m.storage.Clear(ctx, storage.KeyMockToken, storage.KeyMockUser, storage.KeyRefreshToken)
		return nil, ErrSessionExpired
	}

	raw, err := m.storage.Get(ctx, storage.KeyMockUser)
	if err != nil {
		_ = m.storage.Clear(ctx, storage.KeyMockToken, storage.KeyMockUser, storage.KeyRefreshToken)
		return nil, ErrNoStoredSession
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		_ = m.storage.Clear(ctx, storage.KeyMockToken, storage.KeyMockUser, storage.KeyRefreshToken)
		return nil, ErrNoStoredSession
	}

	sess.Token = tok
	if sess.Source == SourceNone {
		sess.Source = SourceMock
	}
	if !role.Valid(sess.Role) {
		sess.Role = role.ParseLenient(string(sess.Role))
	}

	return &sess, nil
}

/*
====================================
INTROSPECTION
====================================
*/

// CurrentUser returns a copy of the active session.
func (m *Manager) CurrentUser() (*Session, bool) {
	if m == nil {
		return nil, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateAuthenticated || m.session == nil {
		return nil, false
	}
	return m.session.clone(), true
}

// State reports the manager's lifecycle state.
func (m *Manager) State() AuthState {
	if m == nil {
		return StateUnauthenticated
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// HasRole reports whether the active session's role is one of required.
// No session means no role.
func (m *Manager) HasRole(required ...role.Role) bool {
	sess, ok := m.CurrentUser()
	if !ok {
		return false
	}
	return role.Allowed(sess.Role, required...)
}

// ValidateToken checks the active SOAP session token against the
// backend. A definitive rejection forces a logout. Non-SOAP sessions
// validate trivially: the client holds no verification keys for them.
func (m *Manager) ValidateToken(ctx context.Context) (bool, error) {
	sess, ok := m.CurrentUser()
	if !ok {
		return false, ErrNotAuthenticated
	}

	if sess.Source != SourceSOAP || m.soapClient == nil {
		return true, nil
	}

	valid, err := m.soapClient.ValidateToken(ctx, sess.Token)
	if err != nil {
		return false, err
	}
	if !valid {
		m.metrics.Inc(MetricTokenRejected)
		m.handleForcedLogout(ctx)
	}
	return valid, nil
}

// Metrics returns the manager's metric registry for export wiring.
func (m *Manager) Metrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// MetricsSnapshot returns a point-in-time copy of the metric counters
// for the exporter packages.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded by the
// drop-if-full dispatcher.
func (m *Manager) AuditDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.audit.Dropped()
}

// REST exposes the underlying REST client for domain API packages.
func (m *Manager) REST() *rest.Client {
	if m == nil {
		return nil
	}
	return m.restClient
}

// SOAP exposes the underlying SOAP client for admin passthrough calls.
func (m *Manager) SOAP() *soap.Client {
	if m == nil {
		return nil
	}
	return m.soapClient
}

// Close flushes and stops the audit dispatcher. The manager is unusable
// for auditing afterwards; other operations keep working.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

/*
====================================
TOKEN PLUMBING
====================================
*/

// AccessToken implements [rest.TokenSource]. SOAP tokens are never
// offered to the REST transport.
func (m *Manager) AccessToken(ctx context.Context) string {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()

	if sess != nil && sess.Source != SourceSOAP {
		return sess.Token
	}

	tok, err := m.storage.Get(ctx, storage.KeyMockToken)
	if err != nil {
		return ""
	}
	return tok
}

// RefreshToken implements [rest.TokenSource].
func (m *Manager) RefreshToken(ctx context.Context) string {
	tok, err := m.storage.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return ""
	}
	return tok
}

// StoreTokens implements [rest.TokenSink]: rotated tokens replace both
// the persisted and the in-memory copies.
func (m *Manager) StoreTokens(ctx context.Context, access, refresh string) error {
	if err := m.storage.Set(ctx, storage.KeyMockToken, access); err != nil {
		return err
	}
	if refresh != "" {
		if err := m.storage.Set(ctx, storage.KeyRefreshToken, refresh); err != nil {
			return err
		}
	}

	m.mu.Lock()
	if m.session != nil && m.session.Source != SourceSOAP {
		m.session.Token = access
	}
	m.mu.Unlock()

	m.metrics.Inc(MetricTokenRefreshed)
	return nil
}

/*
====================================
INTERNAL
====================================
*/

func (m *Manager) commitSession(sess *Session) {
	m.mu.Lock()
	m.session = sess.clone()
	m.pending = nil
	m.state = StateAuthenticated
	m.mu.Unlock()
}

// persistLocalSession writes the local (mock/REST) namespace keys. Any
// previous session's keys, either namespace, are removed first so that
// exactly one namespace holds a session.
func (m *Manager) persistLocalSession(ctx context.Context, sess *Session, refreshToken string) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if err := m.storage.Clear(ctx, storage.SessionKeys()...); err != nil {
		return err
	}
	if err := m.storage.Set(ctx, storage.KeyMockToken, sess.Token); err != nil {
		return err
	}
	if err := m.storage.Set(ctx, storage.KeyMockUser, string(data)); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := m.storage.Set(ctx, storage.KeyRefreshToken, refreshToken); err != nil {
			return err
		}
	}

	return nil
}
