package gohris

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Bmat321/gohris/password"
	"github.com/Bmat321/gohris/role"
)

type mockUser struct {
	passwordHash string
	profile      Session
}

// MockCredentialStore is an in-memory [CredentialStore] backing non-admin
// logins in demo and development deployments. Seeded passwords are hashed
// with Argon2id at construction.
//
// MockCredentialStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MockCredentialStore struct {
	mu      sync.RWMutex
	hasher  *password.Hasher
	users   map[string]mockUser
	latency time.Duration
}

type demoSeed struct {
	email   string
	pass    string
	profile Session
}

func demoSeeds() []demoSeed {
	return []demoSeed{
		{
			email: "employee@hris.com",
			pass:  "emp123",
			profile: Session{
				ID:         "mock-emp-1",
				FirstName:  "Evelyn",
				LastName:   "Mensah",
				Email:      "employee@hris.com",
				Role:       role.Employee,
				Department: "Operations",
				Status:     "active",
			},
		},
		{
			email: "hr@hris.com",
			pass:  "hr123",
			profile: Session{
				ID:         "mock-hr-1",
				FirstName:  "Harriet",
				LastName:   "Boateng",
				Email:      "hr@hris.com",
				Role:       role.HR,
				Department: "People",
				Status:     "active",
			},
		},
		{
			email: "md@hris.com",
			pass:  "md123",
			profile: Session{
				ID:         "mock-md-1",
				FirstName:  "Mark",
				LastName:   "Dadzie",
				Email:      "md@hris.com",
				Role:       role.MD,
				Department: "Executive",
				Status:     "active",
			},
		},
		{
			email: "teamlead@hris.com",
			pass:  "lead123",
			profile: Session{
				ID:         "mock-lead-1",
				FirstName:  "Tina",
				LastName:   "Larbi",
				Email:      "teamlead@hris.com",
				Role:       role.TeamLead,
				Department: "Engineering",
				Status:     "active",
			},
		},
	}
}

// NewMockCredentialStore builds the store, seeding the demo accounts when
// cfg.SeedDemoUsers is set.
func NewMockCredentialStore(cfg MockConfig, passwordCfg PasswordConfig) (*MockCredentialStore, error) {
	hasher, err := password.NewHasher(password.Config{
		Memory:      passwordCfg.Memory,
		Time:        passwordCfg.Time,
		Parallelism: passwordCfg.Parallelism,
		SaltLength:  passwordCfg.SaltLength,
		KeyLength:   passwordCfg.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	s := &MockCredentialStore{
		hasher:  hasher,
		users:   make(map[string]mockUser),
		latency: cfg.SimulatedLatency,
	}

	if cfg.SeedDemoUsers {
		for _, seed := range demoSeeds() {
			if err := s.Register(seed.email, seed.pass, seed.profile); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Register adds or replaces a credential entry.
func (s *MockCredentialStore) Register(email, pass string, profile Session) error {
	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return err
	}

	key := strings.ToLower(strings.TrimSpace(email))
	profile.Email = key

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[key] = mockUser{passwordHash: hash, profile: profile}

	return nil
}

// Authenticate implements [CredentialStore]. The configured latency is
// applied before the lookup and honors ctx cancellation.
func (s *MockCredentialStore) Authenticate(ctx context.Context, email, pass string) (*Session, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	user, ok := s.users[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(pass, user.passwordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	profile := user.profile
	return &profile, nil
}

func (s *MockCredentialStore) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
