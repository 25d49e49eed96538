// Package soap is the client adapter for the legacy HRIS SOAP backend:
// admin authentication plus the authenticated employee/leave/attendance
// passthrough operations.
//
// The backend speaks a small fixed dialect: one POST endpoint, the method
// name in the SOAPAction header, a hand-built envelope with fixed
// namespaces, and flat key/value parameters. Business errors come back as
// a faultstring element, which is checked before any success-path field
// extraction.
package soap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Bmat321/gohris/storage"
)

var (
	// ErrRemoteFault matches any *Fault via errors.Is.
	ErrRemoteFault = errors.New("soap: remote fault")
	// ErrInvalidResponseShape is returned when a response parses as XML
	// but is missing contract-required fields.
	ErrInvalidResponseShape = errors.New("soap: invalid response shape")
	// ErrTransport wraps network and HTTP-layer failures.
	ErrTransport = errors.New("soap: transport failure")
	// ErrInvalidRequest is returned before any network I/O for malformed
	// method or field names.
	ErrInvalidRequest = errors.New("soap: invalid request")
)

// Fault is a server-reported business error carried in a faultstring
// element. Its message is user-facing and passed through verbatim.
type Fault struct {
	Message string
}

// Error implements error.
func (f *Fault) Error() string {
	return "soap: remote fault: " + f.Message
}

// Is makes errors.Is(err, ErrRemoteFault) true for any Fault.
func (f *Fault) Is(target error) bool {
	return target == ErrRemoteFault
}

const maxResponseBytes = 1 << 20

// Config configures a Client.
type Config struct {
	// Endpoint is the single POST target of the SOAP service.
	Endpoint string
	// Namespace overrides DefaultNamespace when the deployment uses its
	// own service namespace.
	Namespace string
	// HTTPClient overrides the transport; defaults to a client with a
	// 30s timeout.
	HTTPClient *http.Client
	// Tokens, when set, receives the session material written on
	// successful login (soap_api_token / soap_api_user) and is read by
	// AuthenticatedCall.
	Tokens storage.Store
}

// Client calls the SOAP backend. Safe for concurrent use.
type Client struct {
	endpoint string
	ns       string
	http     *http.Client
	tokens   storage.Store
}

// UserRecord is the admin user document extracted from a loginUser
// response. Token is the opaque SOAP session token.
type UserRecord struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Token      string `json:"token"`
}

// NewClient creates a Client for the given endpoint.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("soap: endpoint required")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		ns:       cfg.Namespace,
		http:     cfg.HTTPClient,
		tokens:   cfg.Tokens,
	}, nil
}

// Call builds the envelope for method, POSTs it with the SOAPAction
// header, and returns the parsed response document. A faultstring in the
// response fails the call with *Fault before any field extraction.
func (c *Client) Call(ctx context.Context, method string, body, headers map[string]string) (*Node, error) {
	if !validMethodName(method) {
		return nil, fmt.Errorf("%w: method %q", ErrInvalidRequest, method)
	}
	for k := range body {
		if !validMethodName(k) {
			return nil, fmt.Errorf("%w: body field %q", ErrInvalidRequest, k)
		}
	}
	for k := range headers {
		if !validMethodName(k) {
			return nil, fmt.Errorf("%w: header field %q", ErrInvalidRequest, k)
		}
	}

	envelope := buildEnvelope(c.ns, method, body, headers)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader([]byte(envelope)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", method)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	doc, parseErr := parseDocument(io.LimitReader(resp.Body, maxResponseBytes))
	if parseErr != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: http %d", ErrTransport, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseShape, parseErr)
	}

	// Fault check precedes every success path. The backend returns
	// faults with both 200 and 500 statuses depending on the method.
	if msg, ok := doc.FindText("faultstring"); ok {
		return nil, &Fault{Message: msg}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: http %d", ErrTransport, resp.StatusCode)
	}

	return doc, nil
}

// LoginUser authenticates an admin. On success the token and serialized
// user are written to the soap_api_* storage namespace.
func (c *Client) LoginUser(ctx context.Context, email, password string) (*UserRecord, error) {
	doc, err := c.Call(ctx, "loginUser", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}

	user := &UserRecord{}
	for _, f := range []struct {
		name     string
		dst      *string
		required bool
	}{
		{"id", &user.ID, true},
		{"firstName", &user.FirstName, true},
		{"lastName", &user.LastName, false},
		{"email", &user.Email, true},
		{"role", &user.Role, false},
		{"department", &user.Department, false},
		{"status", &user.Status, false},
		{"token", &user.Token, true},
	} {
		text, ok := doc.FindText(f.name)
		if f.required && (!ok || text == "") {
			return nil, fmt.Errorf("%w: login response missing %s", ErrInvalidResponseShape, f.name)
		}
		*f.dst = text
	}

	if c.tokens != nil {
		serialized, err := json.Marshal(user)
		if err != nil {
			return nil, err
		}
		if err := c.tokens.Set(ctx, storage.KeySOAPToken, user.Token); err != nil {
			return nil, err
		}
		if err := c.tokens.Set(ctx, storage.KeySOAPUser, string(serialized)); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// RegisterUser creates an employee account through the legacy backend
// (the invitation flow's admin side). Returns the new user id.
func (c *Client) RegisterUser(ctx context.Context, fields map[string]string) (string, error) {
	doc, err := c.AuthenticatedCall(ctx, "registerUser", fields)
	if err != nil {
		return "", err
	}

	id, ok := doc.FindText("id")
	if !ok || id == "" {
		return "", fmt.Errorf("%w: register response missing id", ErrInvalidResponseShape)
	}
	return id, nil
}

// ResetPassword asks the backend to start a password reset for email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	_, err := c.Call(ctx, "resetPassword", map[string]string{"email": email}, nil)
	return err
}

// ValidateToken checks a session token's liveness with the backend.
func (c *Client) ValidateToken(ctx context.Context, tok string) (bool, error) {
	doc, err := c.Call(ctx, "validateToken", map[string]string{"token": tok}, nil)
	if err != nil {
		return false, err
	}

	valid, ok := doc.FindText("valid")
	if !ok {
		return false, fmt.Errorf("%w: validate response missing valid", ErrInvalidResponseShape)
	}
	return valid == "true", nil
}

// AuthenticatedCall injects the stored SOAP session token as a header
// element and performs a generic passthrough call. Token absence routes
// the request as unauthenticated rather than failing locally.
func (c *Client) AuthenticatedCall(ctx context.Context, method string, body map[string]string) (*Node, error) {
	headers := map[string]string{}
	if c.tokens != nil {
		if tok, err := c.tokens.Get(ctx, storage.KeySOAPToken); err == nil && tok != "" {
			headers["token"] = tok
		}
	}
	return c.Call(ctx, method, body, headers)
}

// Logout removes the soap_api_* session material.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	return c.tokens.Clear(ctx, storage.KeySOAPToken, storage.KeySOAPUser)
}
