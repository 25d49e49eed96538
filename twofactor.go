package gohris

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type twoFactorChallenge struct {
	email     string
	codeHash  [32]byte
	session   *Session
	expiresAt time.Time
	attempts  int
}

// twoFactorStore holds pending login challenges in memory. Entries are
// single-use: success, expiry, and attempt exhaustion all remove them.
type twoFactorStore struct {
	mu          sync.Mutex
	challenges  map[string]*twoFactorChallenge
	ttl         time.Duration
	maxAttempts int
	digits      int
}

func newTwoFactorStore(cfg TwoFactorConfig) *twoFactorStore {
	ttl := cfg.CodeTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	digits := cfg.CodeDigits
	if digits < 4 || digits > 10 {
		digits = 6
	}

	return &twoFactorStore{
		challenges:  make(map[string]*twoFactorChallenge),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		digits:      digits,
	}
}

// Issue parks sess behind a fresh challenge and returns the challenge ID
// and plaintext code. The code is stored only as a SHA-256 hash.
func (s *twoFactorStore) Issue(email string, sess *Session, now time.Time) (string, string, error) {
	code, err := generateNumericCode(s.digits)
	if err != nil {
		return "", "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(now)
	s.challenges[id] = &twoFactorChallenge{
		email:     strings.ToLower(email),
		codeHash:  sha256.Sum256([]byte(code)),
		session:   sess,
		expiresAt: now.Add(s.ttl),
	}

	return id, code, nil
}

// Verify consumes the challenge when the code matches. Wrong codes burn
// one attempt; the entry is removed once attempts run out or the TTL
// passes.
func (s *twoFactorStore) Verify(id, email, code string, now time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[id]
	if !ok || ch.email != strings.ToLower(email) {
		return nil, ErrNoPendingChallenge
	}

	if now.After(ch.expiresAt) {
		delete(s.challenges, id)
		return nil, ErrTwoFactorExpired
	}

	supplied := sha256.Sum256([]byte(code))
	if subtle.ConstantTimeCompare(supplied[:], ch.codeHash[:]) != 1 {
		ch.attempts++
		if ch.attempts >= s.maxAttempts {
			delete(s.challenges, id)
			return nil, ErrTwoFactorAttemptsExceeded
		}
		return nil, ErrTwoFactorInvalid
	}

	delete(s.challenges, id)
	return ch.session, nil
}

// Drop removes a pending challenge without verifying it.
func (s *twoFactorStore) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
}

func (s *twoFactorStore) evictExpired(now time.Time) {
	for id, ch := range s.challenges {
		if now.After(ch.expiresAt) {
			delete(s.challenges, id)
		}
	}
}

func generateNumericCode(digits int) (string, error) {
	raw := make([]byte, digits)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, v := range raw {
		fmt.Fprintf(&b, "%d", int(v)%10)
	}

	return b.String(), nil
}
