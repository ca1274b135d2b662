package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTripAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "taskwiz")

	s := NewFileStore(dir)
	if err := s.Set(KeyToken, "abc.def.ghi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh instance over the same directory simulates a restart.
	reloaded := NewFileStore(dir)
	v, ok, err := reloaded.Get(KeyToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || v != "abc.def.ghi" {
		t.Errorf("expected stored token, got %q (present=%v)", v, ok)
	}

	info, err := os.Stat(filepath.Join(dir, KeyToken))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())
	v, ok, err := s.Get(KeyUsername)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected missing key, got %q (present=%v)", v, ok)
	}
}

func TestFileStore_Remove(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.Set(KeyToken, "t"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Remove(KeyToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get(KeyToken); ok {
		t.Error("expected token to be gone")
	}
	// Removing again is fine.
	if err := s.Remove(KeyToken); err != nil {
		t.Errorf("second Remove failed: %v", err)
	}
}

func TestFileStore_InvalidKey(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		if err := s.Set(key, "x"); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	_ = m.Set(KeyUsername, "validuser")
	if v, ok, _ := m.Get(KeyUsername); !ok || v != "validuser" {
		t.Errorf("unexpected value %q", v)
	}
	_ = m.Remove(KeyUsername)
	if _, ok, _ := m.Get(KeyUsername); ok {
		t.Error("expected key removed")
	}
}
