package gohris

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bmat321/gohris/role"
)

func newTestMockStore(t *testing.T, latency time.Duration) *MockCredentialStore {
	t.Helper()

	cfg := defaultConfig()
	cfg.Mock.SimulatedLatency = latency

	store, err := NewMockCredentialStore(cfg.Mock, cfg.Password)
	if err != nil {
		t.Fatalf("NewMockCredentialStore error: %v", err)
	}
	return store
}

func TestMockStoreDemoCredentials(t *testing.T) {
	store := newTestMockStore(t, 0)

	tests := []struct {
		email string
		pass  string
		role  role.Role
	}{
		{"employee@hris.com", "emp123", role.Employee},
		{"hr@hris.com", "hr123", role.HR},
		{"md@hris.com", "md123", role.MD},
		{"teamlead@hris.com", "lead123", role.TeamLead},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			sess, err := store.Authenticate(context.Background(), tt.email, tt.pass)
			if err != nil {
				t.Fatalf("Authenticate error: %v", err)
			}
			if sess.Role != tt.role {
				t.Fatalf("expected role %q, got %q", tt.role, sess.Role)
			}
			if sess.Token != "" || sess.Source != SourceNone {
				t.Fatal("credential store must not mint tokens")
			}
		})
	}
}

func TestMockStoreWrongPassword(t *testing.T) {
	store := newTestMockStore(t, 0)

	_, err := store.Authenticate(context.Background(), "employee@hris.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMockStoreUnknownUser(t *testing.T) {
	store := newTestMockStore(t, 0)

	_, err := store.Authenticate(context.Background(), "nobody@hris.com", "emp123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMockStoreEmailCaseInsensitive(t *testing.T) {
	store := newTestMockStore(t, 0)

	sess, err := store.Authenticate(context.Background(), "  Employee@HRIS.com ", "emp123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if sess.Email != "employee@hris.com" {
		t.Fatalf("expected canonical email, got %q", sess.Email)
	}
}

func TestMockStoreLatencyHonorsContext(t *testing.T) {
	store := newTestMockStore(t, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := store.Authenticate(ctx, "employee@hris.com", "emp123")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancellation took too long: %v", elapsed)
	}
}

func TestMockStoreRegisterOverrides(t *testing.T) {
	store := newTestMockStore(t, 0)

	err := store.Register("employee@hris.com", "newpass", Session{
		ID:        "mock-emp-1",
		FirstName: "Evelyn",
		LastName:  "Mensah",
		Role:      role.Employee,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := store.Authenticate(context.Background(), "employee@hris.com", "emp123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password must stop working after re-register")
	}
	if _, err := store.Authenticate(context.Background(), "employee@hris.com", "newpass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestMockStoreReturnsProfileCopy(t *testing.T) {
	store := newTestMockStore(t, 0)

	first, err := store.Authenticate(context.Background(), "hr@hris.com", "hr123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	first.Department = "mutated"

	second, err := store.Authenticate(context.Background(), "hr@hris.com", "hr123")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if second.Department == "mutated" {
		t.Fatal("authenticate must return an independent copy")
	}
}
