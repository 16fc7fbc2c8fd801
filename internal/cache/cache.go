// Package cache holds the single in-memory snapshot of the last
// successful load. It is process-lifetime-scoped: nothing survives a
// restart.
package cache

import (
	"sync"
	"time"

	"github.com/tgpulse/tgpulse/internal/model"
)

// Store keeps one snapshot and its capture time. The entry is replaced
// wholesale on Put and kept past expiry so the loader can fall back to a
// stale copy when every source fails.
type Store struct {
	mu   sync.Mutex
	snap model.Snapshot
	set  bool
	ttl  time.Duration
}

func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl}
}

// Get returns the stored snapshot, fresh or stale, and whether one exists.
func (s *Store) Get() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, s.set
}

// Put replaces the snapshot.
func (s *Store) Put(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.set = true
}

// Fresh reports whether the stored snapshot is younger than the TTL.
func (s *Store) Fresh(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set && now.Sub(s.snap.CapturedAt) < s.ttl
}
