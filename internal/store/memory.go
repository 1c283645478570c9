package store

import (
	"sync"
	"time"

	"github.com/i474232898/weather-companion/internal/weather"
)

// Saved is one preferences write.
type Saved struct {
	Preferences weather.Preferences `json:"preferences"`
	SavedAt     time.Time           `json:"savedAt"`
}

// MemoryStore is a concurrency-safe in-memory Store that also remembers
// earlier writes. It backs headless runs without a preferences path and the
// control API's history endpoint.
type MemoryStore struct {
	mu sync.RWMutex

	history []Saved

	// max number of writes kept
	maxHistory int
	next       Store
}

// NewMemoryStore creates a MemoryStore. If maxHistory is <= 0, it is
// treated as unlimited. When next is non-nil every Save is written through
// to it and Load falls back to it.
func NewMemoryStore(maxHistory int, next Store) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		next:       next,
	}
}

// Save records p and enforces retention. The write-through store is called
// first so a failed write is not recorded.
func (s *MemoryStore) Save(p weather.Preferences) error {
	if s.next != nil {
		if err := s.next.Save(p); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Saved{Preferences: p, SavedAt: time.Now()})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = s.history[over:]
	}
	return nil
}

// Load returns the latest saved preferences, or what the write-through
// store holds when nothing was saved in this process.
func (s *MemoryStore) Load() (*weather.Preferences, error) {
	p, err := s.Latest()
	if err == nil {
		return &p, nil
	}
	if s.next != nil {
		return s.next.Load()
	}
	return nil, nil
}

// Latest returns the most recent write.
func (s *MemoryStore) Latest() (weather.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return weather.Preferences{}, ErrNotFound
	}
	return s.history[len(s.history)-1].Preferences, nil
}

// History returns every retained write, oldest first.
func (s *MemoryStore) History() []Saved {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Saved, len(s.history))
	copy(out, s.history)
	return out
}
