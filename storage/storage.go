// Package storage persists session material across process restarts.
//
// The hybrid-auth design keeps two independent key namespaces so the mock
// and SOAP subsystems can each restore their own session without knowing
// about the other. Logout clears both namespaces unconditionally; that is
// the only operation allowed to touch keys it did not write.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Durable keys. The dual namespace (hris_mock_* vs soap_api_*) is
// load-bearing: exactly one namespace holds a session at any time, and
// each auth subsystem restores only from its own.
const (
	KeyMockToken    = "hris_mock_token"
	KeyMockUser     = "hris_mock_user"
	KeyRefreshToken = "hris_refresh_token"
	KeySOAPToken    = "soap_api_token"
	KeySOAPUser     = "soap_api_user"
)

// SessionKeys lists every key that Logout must remove.
func SessionKeys() []string {
	return []string{KeyMockToken, KeyMockUser, KeyRefreshToken, KeySOAPToken, KeySOAPUser}
}

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("storage: key not found")

// ErrUnavailable wraps backend transport failures (file I/O, Redis).
var ErrUnavailable = errors.New("storage: backend unavailable")

// Store is the durable key/value surface the session manager writes
// through. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, keys ...string) error
}

// Memory is an in-process Store used by tests and short-lived tools.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Delete implements Store. Deleting an absent key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
