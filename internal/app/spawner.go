package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Spawner runs background work detached from the consumer loop. The loop
// never waits on a spawned task.
type Spawner interface {
	Spawn(name string, task func())
}

// GoSpawner runs each task on its own goroutine.
type GoSpawner struct {
	wg     sync.WaitGroup
	logger *zap.SugaredLogger
}

func NewGoSpawner(logger *zap.SugaredLogger) *GoSpawner {
	return &GoSpawner{logger: logger}
}

func (s *GoSpawner) Spawn(name string, task func()) {
	id := uuid.NewString()
	s.wg.Add(1)
	s.logger.Debugw("task started", "task", name, "id", id)

	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorw("task panicked", "task", name, "id", id, "panic", r)
			}
		}()

		start := time.Now()
		task()
		s.logger.Debugw("task finished", "task", name, "id", id, "elapsed", time.Since(start))
	}()
}

// Wait blocks until every spawned task has returned.
func (s *GoSpawner) Wait() {
	s.wg.Wait()
}
