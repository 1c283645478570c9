// Package app owns the application state and the consumer loop that applies
// update events to it.
package app

import (
	"sync"

	"go.uber.org/zap"
)

// Shared guards State with a lock that is never waited on. A caller that
// finds the lock held gives up and the update is dropped.
type Shared struct {
	mu     sync.Mutex
	state  State
	logger *zap.SugaredLogger
}

func newShared(state State, logger *zap.SugaredLogger) *Shared {
	return &Shared{state: state, logger: logger}
}

// WithLockedState runs f with exclusive access to the state if the lock is
// free. It reports whether f ran; a skipped call is logged with op.
func (s *Shared) WithLockedState(op string, f func(*State)) bool {
	if !s.mu.TryLock() {
		s.logger.Warnw("state busy, skipping update", "op", op)
		return false
	}
	defer s.mu.Unlock()

	f(&s.state)
	return true
}
