// Package id generates time-sortable identifiers for WebSocket clients and
// processed events.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Source hands out ULIDs that sort in the order they were made, including
// several made in the same millisecond.
type Source struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewSource returns a Source stamped by now.
func NewSource(now func() time.Time) *Source {
	return &Source{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns the next ULID string. The clock is read under the lock so ids
// stay ordered across goroutines.
func (s *Source) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(s.now()), s.entropy)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond.
		panic(err)
	}
	return u.String()
}

var std = NewSource(time.Now)

// New returns a ULID string from the process-wide source.
func New() string {
	return std.Next()
}

// WithPrefix returns prefix + "_" + a ULID, e.g. "ws_01J...".
func WithPrefix(prefix string) string {
	return prefix + "_" + New()
}
