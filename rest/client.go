// Package rest is the JSON API client layer: it wraps HTTP with bearer
// auth-header injection, an allow-list of unauthenticated routes, and a
// single designated 401 recovery point.
//
// The 401 policy is deliberately explicit configuration. The safe default
// is PolicyForceLogout: a rejected token clears the session rather than
// leaving the client half-authenticated. PolicyRefreshOnce attempts one
// refresh-and-replay and forces logout when that fails.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTransport wraps network and HTTP-layer failures.
	ErrTransport = errors.New("rest: transport failure")
	// ErrUnauthorized is the terminal 401 outcome after the configured
	// reauthentication policy has run.
	ErrUnauthorized = errors.New("rest: unauthorized")
)

// APIError is a non-2xx response whose JSON body carried a message. The
// message is user-facing and passed through verbatim.
type APIError struct {
	Status  int
	Message string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("rest: api error %d: %s", e.Status, e.Message)
}

// Is makes errors.Is(err, ErrUnauthorized) true for 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ReauthPolicy selects the 401 recovery behavior.
type ReauthPolicy int

const (
	// PolicyForceLogout clears the session on any 401. Default.
	PolicyForceLogout ReauthPolicy = iota
	// PolicyRefreshOnce exchanges the refresh token for a new access
	// token and replays the original request exactly once; a second 401
	// or a failed refresh forces logout.
	PolicyRefreshOnce
)

// TokenSource supplies the current session tokens. Empty strings mean
// "no token": the request goes out unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
}

// TokenSink receives rotated tokens after a successful refresh. A
// TokenSource that cannot store updates simply doesn't implement it, and
// PolicyRefreshOnce degrades to forced logout.
type TokenSink interface {
	StoreTokens(ctx context.Context, access, refresh string) error
}

// publicRoutes never carry a bearer header and never trigger the 401
// policy. Matched on the final path segment.
var publicRoutes = map[string]struct{}{
	"register":              {},
	"activate-user":         {},
	"login":                 {},
	"request-user-password": {},
	"reset-user-password":   {},
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://hris.example.com/api".
	BaseURL string
	// Policy selects the 401 recovery behavior.
	Policy ReauthPolicy
	// HTTPClient overrides the transport; defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Tokens supplies (and, when it implements TokenSink, stores) the
	// session tokens. Nil means every request goes out unauthenticated.
	Tokens TokenSource
	// OnForcedLogout is invoked when the 401 policy gives up on the
	// session. The session owner clears its state and storage here.
	OnForcedLogout func(ctx context.Context)
}

// Client is the JSON API client. Safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	policy ReauthPolicy
	tokens TokenSource
	logout func(ctx context.Context)
}

// NewClient creates a Client for the given API root.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("rest: base url required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	logout := cfg.OnForcedLogout
	if logout == nil {
		logout = func(context.Context) {}
	}
	return &Client{
		base:   strings.TrimSuffix(cfg.BaseURL, "/"),
		http:   cfg.HTTPClient,
		policy: cfg.Policy,
		tokens: cfg.Tokens,
		logout: logout,
	}, nil
}

// IsPublicRoute reports whether route is on the unauthenticated
// allow-list.
func IsPublicRoute(route string) bool {
	route = strings.TrimSuffix(route, "/")
	if i := strings.IndexByte(route, '?'); i >= 0 {
		route = route[:i]
	}
	segment := route
	if i := strings.LastIndexByte(route, '/'); i >= 0 {
		segment = route[i+1:]
	}
	_, ok := publicRoutes[segment]
	return ok
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, route string, out any) error {
	return c.Do(ctx, http.MethodGet, route, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, route string, in, out any) error {
	return c.Do(ctx, http.MethodPost, route, in, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, route string, in, out any) error {
	return c.Do(ctx, http.MethodPut, route, in, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, route string, out any) error {
	return c.Do(ctx, http.MethodDelete, route, nil, out)
}

// Do issues one API call, running the 401 policy when needed.
func (c *Client) Do(ctx context.Context, method, route string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}
	return c.do(ctx, method, route, body, out, nil, false)
}

// postCapture issues a POST and also hands back the cookies the response
// set. Token-issuing routes use it for deployments that deliver tokens
// via Set-Cookie instead of the JSON body.
func (c *Client) postCapture(ctx context.Context, route string, in, out any) ([]*http.Cookie, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var cookies []*http.Cookie
	if err := c.do(ctx, http.MethodPost, route, body, out, &cookies, false); err != nil {
		return nil, err
	}
	return cookies, nil
}

func (c *Client) url(route string) string {
	return c.base + "/" + strings.TrimPrefix(route, "/")
}

func (c *Client) do(ctx context.Context, method, route string, body []byte, out any, cookies *[]*http.Cookie, replayed bool) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(route), reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	public := IsPublicRoute(route)
	if !public && c.tokens != nil {
		if tok := c.tokens.AccessToken(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !public {
		_, _ = io.Copy(io.Discard, resp.Body)
		return c.recover401(ctx, method, route, body, out, cookies, replayed)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if cookies != nil {
		*cookies = resp.Cookies()
	}
	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("rest: decoding %s response: %w", route, err)
		}
	}
	return nil
}

// recover401 is the single designated recovery point for rejected
// tokens.
func (c *Client) recover401(ctx context.Context, method, route string, body []byte, out any, cookies *[]*http.Cookie, replayed bool) error {
	if replayed || c.policy != PolicyRefreshOnce {
		c.logout(ctx)
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, route)
	}

	if err := c.refresh(ctx); err != nil {
		c.logout(ctx)
		return fmt.Errorf("%w: refresh failed: %v", ErrUnauthorized, err)
	}

	// Replay the original request exactly once.
	return c.do(ctx, method, route, body, out, cookies, true)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) refresh(ctx context.Context) error {
	sink, ok := c.tokens.(TokenSink)
	if c.tokens == nil || !ok {
		return errors.New("no token sink")
	}

	refreshTok := c.tokens.RefreshToken(ctx)
	if refreshTok == "" {
		return errors.New("no usable refresh token")
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshTok})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("auth/refresh"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh rejected: http %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var rotated refreshResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rotated); err != nil {
			return err
		}
	}
	if rotated.Token == "" || rotated.RefreshToken == "" {
		access, refreshed := TokensFromCookies(resp.Cookies())
		if rotated.Token == "" {
			rotated.Token = access
		}
		if rotated.RefreshToken == "" {
			rotated.RefreshToken = refreshed
		}
	}
	if rotated.Token == "" {
		return errors.New("refresh response missing token")
	}
	return sink.StoreTokens(ctx, rotated.Token, rotated.RefreshToken)
}
