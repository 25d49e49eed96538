package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, KeyMockToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent key, got %v", err)
	}

	if err := store.Set(ctx, KeyMockToken, "mock_token_1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, KeyMockUser, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, KeySOAPToken, "soap-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, err := store.Get(ctx, KeyMockToken)
	if err != nil || v != "mock_token_1" {
		t.Fatalf("Get = %q, %v", v, err)
	}

	if err := store.Delete(ctx, KeySOAPToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, KeySOAPToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted key to be absent, got %v", err)
	}
	// Delete is idempotent.
	if err := store.Delete(ctx, KeySOAPToken); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	if err := store.Clear(ctx, SessionKeys()...); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, k := range SessionKeys() {
		if _, err := store.Get(ctx, k); !errors.Is(err, ErrNotFound) {
			t.Fatalf("key %s survived Clear: %v", k, err)
		}
	}
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemory())
}

func TestFileStoreContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	runStoreContract(t, store)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if err := first.Set(ctx, KeySOAPToken, "soap-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	v, err := second.Get(ctx, KeySOAPToken)
	if err != nil || v != "soap-token" {
		t.Fatalf("Get after reopen = %q, %v", v, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 0600", perm)
	}
}

func TestFileStoreCorruptFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if _, err := store.Get(ctx, KeyMockToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt file should read as empty, got %v", err)
	}
	if err := store.Set(ctx, KeyMockToken, "x"); err != nil {
		t.Fatalf("Set over corrupt file failed: %v", err)
	}
}
