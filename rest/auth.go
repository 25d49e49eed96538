package rest

import (
	"context"
)

// LoginResponse is the outcome of POST auth/login. The REST backend
// never materializes a session on password success alone: it signals
// that the emailed second factor is required.
type LoginResponse struct {
	TwoFactorRequired bool   `json:"twoFactorRequired"`
	ChallengeID       string `json:"challengeId"`
	Message           string `json:"message"`
}

// SessionPayload is the committed session returned by auth/verify-2fa.
type SessionPayload struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         map[string]any `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type activateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Login starts the two-step REST login. A nil error means the password
// was accepted and a 2FA code has been issued; no session exists yet.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.Post(ctx, "auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTwoFactor finalizes the login. Only a successful verification
// materializes the session payload. Tokens the backend delivers via
// Set-Cookie instead of the JSON body are picked up too.
func (c *Client) VerifyTwoFactor(ctx context.Context, email, code string) (*SessionPayload, error) {
	var out SessionPayload
	cookies, err := c.postCapture(ctx, "auth/verify-2fa", verifyRequest{Email: email, Code: code}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" || out.RefreshToken == "" {
		access, refresh := TokensFromCookies(cookies)
		if out.Token == "" {
			out.Token = access
		}
		if out.RefreshToken == "" {
			out.RefreshToken = refresh
		}
	}
	return &out, nil
}

// ActivateUser completes an invitation: the invited employee sets their
// password against the emailed activation token.
func (c *Client) ActivateUser(ctx context.Context, activationToken, password string) error {
	return c.Post(ctx, "auth/activate-user", activateRequest{Token: activationToken, Password: password}, nil)
}

// Me fetches the authenticated user's profile document, raw. Callers
// normalize it.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Get(ctx, "auth/me", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestPasswordReset starts the forgot-password flow.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.Post(ctx, "auth/request-user-password", emailRequest{Email: email}, nil)
}

// ResetPassword completes the forgot-password flow.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.Post(ctx, "auth/reset-user-password", resetRequest{Token: resetToken, Password: password}, nil)
}
