// Package id provides unique identifier generation utilities.
// This is the canonical source for ID generation across the codebase.
package id

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UUID generates a UUID v4 (random).
func UUID() string {
	return uuid.NewString()
}

var (
	seqMu   sync.Mutex
	seqLast int64
	seqN    uint32
)

// Prefixed generates a type-prefixed identifier of the form
// "<prefix>_<millis>_<n>". IDs are unique within a process and sort by
// creation time. They are not guaranteed unique across process restarts,
// which is acceptable for a test double.
func Prefixed(prefix string) string {
	seqMu.Lock()
	defer seqMu.Unlock()

	now := time.Now().UnixMilli()
	if now == seqLast {
		seqN++
	} else {
		seqLast = now
		seqN = 0
	}

	return prefix + "_" + strconv.FormatInt(now, 36) + "_" + strconv.FormatUint(uint64(seqN), 36)
}

var (
	verMu sync.Mutex
	verN  uint64
)

// VersionToken returns an opaque, process-local version marker. Callers must
// treat the value as opaque; only equality is meaningful.
func VersionToken() string {
	verMu.Lock()
	defer verMu.Unlock()
	verN++
	return "v" + strconv.FormatUint(verN, 36)
}
