// Package token inspects bearer tokens on the client side.
//
// The SDK never verifies signatures: verification is the server's job and
// the client holds no keys. What the client does need is to read claims
// out of a REST-issued JWT (who am I, when does this expire) so a
// persisted session is not restored after its token is already dead.
// Mock and SOAP tokens are opaque strings; they pass through unparsed and
// their liveness is decided by the owning backend.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned when the token is not a JWT (mock and SOAP
// session tokens).
var ErrOpaqueToken = errors.New("token: not a jwt")

// ErrMalformed is returned for strings that look like JWTs but do not
// decode.
var ErrMalformed = errors.New("token: malformed jwt")

// MockPrefix marks locally issued demo tokens. They carry no claims and
// no cryptographic guarantee.
const MockPrefix = "mock_token_"

// Claims is the subset of access-token claims the client reads.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessClaims struct {
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	SID   string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// IsOpaque reports whether raw is one of the non-JWT token families.
func IsOpaque(raw string) bool {
	return strings.Count(raw, ".") != 2
}

// Peek decodes the claims of a JWT without verifying its signature.
func Peek(raw string) (*Claims, error) {
	if raw == "" || IsOpaque(raw) {
		return nil, ErrOpaqueToken
	}

	var claims accessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}

	out := &Claims{
		UserID:    claims.UID,
		Email:     claims.Email,
		Role:      claims.Role,
		SessionID: claims.SID,
	}
	if out.UserID == "" {
		out.UserID = claims.Subject
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether a JWT's exp claim is in the past at now.
// Opaque tokens and JWTs without an exp claim report false: their
// liveness is decided server-side, and the 401 recovery path handles a
// stale guess.
func Expired(raw string, now time.Time) bool {
	claims, err := Peek(raw)
	if err != nil {
		return false
	}
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
