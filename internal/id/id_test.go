package id

import (
	"strings"
	"testing"
)

func TestUUID(t *testing.T) {
	a := UUID()
	b := UUID()
	if a == b {
		t.Error("consecutive UUIDs should differ")
	}
	if len(a) != 36 {
		t.Errorf("UUID length = %d, want 36", len(a))
	}
}

func TestPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Prefixed("item")
		if !strings.HasPrefix(id, "item_") {
			t.Fatalf("Prefixed(%q) = %q, missing prefix", "item", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestVersionToken(t *testing.T) {
	a := VersionToken()
	b := VersionToken()
	if a == b {
		t.Error("consecutive version tokens should differ")
	}
	if !strings.HasPrefix(a, "v") {
		t.Errorf("token %q missing v prefix", a)
	}
}
