package hris

import (
	"context"
	"strings"

	"github.com/Bmat321/gohris"
	"github.com/Bmat321/gohris/normalize"
	"github.com/Bmat321/gohris/role"
)

// ProfileService covers the logged-in profile and the administrator's
// employee lifecycle operations.
type ProfileService struct {
	client *Client
}

// InviteInput describes a new employee account to provision.
type InviteInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Me fetches the logged-in user's profile. A SOAP administrator session
// answers from local session state; the backend exposes no profile
// endpoint for it. The raw document is published to the state store.
func (p *ProfileService) Me(ctx context.Context) (*gohris.Session, error) {
	sess, err := p.client.session()
	if err != nil {
		return nil, err
	}

	if sess.Source == gohris.SourceSOAP {
		return sess, nil
	}

	p.client.state.setLoading(SliceProfile, true)
	defer p.client.state.setLoading(SliceProfile, false)

	rc, err := p.client.rest()
	if err != nil {
		return nil, err
	}

	user, err := rc.Me(ctx)
	if err != nil {
		return nil, err
	}
	doc := extractDoc(user, "user", "data")
	p.client.state.setProfile(doc)

	fresh := sessionFromDoc(doc)
	fresh.Token = sess.Token
	fresh.Source = sess.Source
	if fresh.Email == "" {
		fresh.Email = sess.Email
	}
	return fresh, nil
}

// Invite provisions a new employee account. Administrator only. The
// returned message is the backend's confirmation text.
func (p *ProfileService) Invite(ctx context.Context, in InviteInput) (string, error) {
	sess, err := p.client.session()
	if err != nil {
		return "", err
	}
	guard, guardErr := role.NewGuard(role.Admin)
	if guardErr != nil {
		return "", guardErr
	}
	if err := guard.Check(sess.Role); err != nil {
		return "", err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if sess.Source == gohris.SourceSOAP {
		sc, err := p.client.soap()
		if err != nil {
			return "", err
		}
		return sc.RegisterUser(ctx, map[string]string{
			"firstName":  in.FirstName,
			"lastName":   in.LastName,
			"email":      in.Email,
			"role":       in.Role,
			"department": in.Department,
		})
	}

	rc, err := p.client.rest()
	if err != nil {
		return "", err
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := rc.Post(ctx, "auth/register", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Activate redeems an invitation token and sets the account password.
// No session is required; activation happens before first login.
func (p *ProfileService) Activate(ctx context.Context, activationToken, password string) error {
	rc, err := p.client.rest()
	if err != nil {
		return err
	}
	return rc.ActivateUser(ctx, activationToken, password)
}

// RequestPasswordReset starts the reset flow for an account. Routed
// through SOAP when the active session is the administrator's, through
// the public REST route otherwise.
func (p *ProfileService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if sess, ok := p.client.manager.CurrentUser(); ok && sess.Source == gohris.SourceSOAP {
		sc, err := p.client.soap()
		if err != nil {
			return err
		}
		return sc.ResetPassword(ctx, email)
	}

	rc, err := p.client.rest()
	if err != nil {
		return err
	}
	return rc.RequestPasswordReset(ctx, email)
}

// ResetPassword redeems a reset token. No session required.
func (p *ProfileService) ResetPassword(ctx context.Context, resetToken, password string) error {
	rc, err := p.client.rest()
	if err != nil {
		return err
	}
	return rc.ResetPassword(ctx, resetToken, password)
}

// sessionFromDoc lifts a loose profile document into a Session shape.
func sessionFromDoc(doc map[string]any) *gohris.Session {
	sess := &gohris.Session{}
	if doc == nil {
		return sess
	}

	if v, ok := doc["firstName"].(string); ok {
		sess.FirstName = v
	}
	if v, ok := doc["lastName"].(string); ok {
		sess.LastName = v
	}
	if v, ok := doc["email"].(string); ok {
		sess.Email = strings.ToLower(v)
	}
	if v, ok := doc["department"].(string); ok {
		sess.Department = v
	}
	if v, ok := doc["role"].(string); ok {
		sess.Role = role.ParseLenient(v)
	}
	if v, ok := doc["status"]; ok {
		sess.Status = normalize.Status(v)
	}
	if v, ok := doc["_id"]; ok {
		sess.ID = normalize.ID(v)
	} else if v, ok := doc["id"]; ok {
		sess.ID = normalize.ID(v)
	}
	return sess
}
