package app

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGoSpawnerRunsAndRecovers(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	s := NewGoSpawner(zap.New(obs).Sugar())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		s.Spawn("count", func() { ran.Add(1) })
	}
	s.Spawn("boom", func() { panic("boom") })
	s.Wait()

	require.EqualValues(t, 10, ran.Load())
	require.Equal(t, 11, logs.FilterMessage("task started").Len())

	panics := logs.FilterMessage("task panicked").All()
	require.Len(t, panics, 1)
	require.Equal(t, "boom", panics[0].ContextMap()["task"])
	require.NotEmpty(t, panics[0].ContextMap()["id"])
}
