package gohris

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Bmat321/gohris/role"
)

// AuthState represents the lifecycle state of the session manager.
type AuthState uint8

const (
	// StateUnauthenticated is an exported constant or variable used by the session manager.
	StateUnauthenticated AuthState = iota
	// StateAuthenticating is an exported constant or variable used by the session manager.
	StateAuthenticating
	// StateTwoFactorPending is an exported constant or variable used by the session manager.
	StateTwoFactorPending
	// StateAuthenticated is an exported constant or variable used by the session manager.
	StateAuthenticated
	// StateLoggedOut is an exported constant or variable used by the session manager.
	StateLoggedOut
)

func (s AuthState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateTwoFactorPending:
		return "two_factor_pending"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// SessionSource identifies which backend established a session.
type SessionSource uint8

const (
	// SourceNone is an exported constant or variable used by the session manager.
	SourceNone SessionSource = iota
	// SourceMock is an exported constant or variable used by the session manager.
	SourceMock
	// SourceSOAP is an exported constant or variable used by the session manager.
	SourceSOAP
	// SourceREST is an exported constant or variable used by the session manager.
	SourceREST
)

func (s SessionSource) String() string {
	switch s {
	case SourceMock:
		return "mock"
	case SourceSOAP:
		return "soap"
	case SourceREST:
		return "rest"
	default:
		return ""
	}
}

// MarshalJSON encodes the source as its string name so persisted
// sessions stay readable across versions.
func (s SessionSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a source name. Unknown names map to SourceNone.
func (s *SessionSource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "mock":
		*s = SourceMock
	case "soap":
		*s = SourceSOAP
	case "rest":
		*s = SourceREST
	default:
		*s = SourceNone
	}

	return nil
}

// Session is the authenticated user held by the [Manager] and persisted
// across restarts.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	ID         string        `json:"id"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Email      string        `json:"email"`
	Role       role.Role     `json:"role"`
	Department string        `json:"department,omitempty"`
	Status     string        `json:"status,omitempty"`
	Token      string        `json:"token,omitempty"`
	Source     SessionSource `json:"source"`
}

// DisplayName returns "First Last", falling back to the email when both
// name parts are empty.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}

	name := strings.TrimSpace(fmt.Sprintf("%s %s", s.FirstName, s.LastName))
	if name == "" {
		return s.Email
	}
	return name
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// LoginResult is returned by [Manager.Login] and
// [Manager.VerifyTwoFactor]. Either Session is set, or
// TwoFactorRequired is true and the login is parked until the second
// factor verifies.
type LoginResult struct {
	Session *Session

	TwoFactorRequired bool
	ChallengeID       string
	Message           string
}

// CredentialStore is the interface a credential backend implements for
// non-admin logins. [MockCredentialStore] is the bundled demo
// implementation.
type CredentialStore interface {
	// Authenticate verifies email and password and returns the matching
	// profile without Token or Source set. Rejections return
	// [ErrInvalidCredentials].
	Authenticate(ctx context.Context, email, password string) (*Session, error)
}
