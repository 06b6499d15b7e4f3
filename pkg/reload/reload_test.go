package reload

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatchFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubd.yaml")
	if err := os.WriteFile(path, []byte("routes: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int64
	w, err := New(func(string) { calls.Add(1) }, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("routes: [] # changed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return calls.Load() > 0 }) {
		t.Fatal("change callback never fired")
	}
}

func TestWatchDirectoryFiltersByGlob(t *testing.T) {
	dir := t.TempDir()

	var yamlCalls, otherCalls atomic.Int64
	w, err := New(func(path string) {
		if filepath.Ext(path) == ".yaml" {
			yamlCalls.Add(1)
		} else {
			otherCalls.Add(1)
		}
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "routes.yaml"), []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return yamlCalls.Load() > 0 }) {
		t.Fatal("yaml change callback never fired")
	}
	// Give a filtered event time to (wrongly) arrive.
	time.Sleep(200 * time.Millisecond)
	if otherCalls.Load() != 0 {
		t.Errorf("filtered file triggered %d callbacks", otherCalls.Load())
	}
}

func TestWatchDebounceCollapsesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stubd.yaml")
	if err := os.WriteFile(path, []byte("a: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int64
	w, err := New(func(string) { calls.Add(1) }, WithDebounce(150*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("a: 1\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, 3*time.Second, func() bool { return calls.Load() > 0 }) {
		t.Fatal("change callback never fired")
	}
	got := calls.Load()
	if got > 2 {
		t.Errorf("burst of 5 writes produced %d callbacks, want it collapsed", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNewRequiresCallback(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("nil callback should be rejected")
	}
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("adding a missing path should fail")
	}
}
