package oauth

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateStore holds the OAuth state nonces issued for in-flight install
// flows. Entries expire after a TTL and are consumed at most once; a
// background sweep removes entries the callback never claimed.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStateStore creates a state store with the given entry TTL
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
}

// Issue generates a new state nonce and records when it was issued
func (s *StateStore) Issue() string {
	state := strings.ReplaceAll(uuid.NewString(), "-", "")

	s.mu.Lock()
	s.entries[state] = time.Now()
	s.mu.Unlock()

	return state
}

// Consume removes the state and reports whether it was valid (present and
// not expired). A second call for the same state always returns false.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	issuedAt, ok := s.entries[state]
	if !ok {
		return false
	}
	delete(s.entries, state)

	return time.Since(issuedAt) <= s.ttl
}

// StartSweep launches the background task that drops expired entries every
// interval. Call Stop at shutdown.
func (s *StateStore) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep task
func (s *StateStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *StateStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for state, issuedAt := range s.entries {
		if now.Sub(issuedAt) > s.ttl {
			delete(s.entries, state)
		}
	}
}

// Len reports the number of live entries; used by the sweep tests
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
