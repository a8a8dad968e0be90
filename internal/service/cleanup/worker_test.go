package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) CleanupOldSessions() int {
	c.calls.Add(1)
	return 0
}

func TestWorker_SweepsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	NewWorker(sweeper, 5*time.Millisecond).Start(ctx)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())
}

func TestNewWorker_DefaultInterval(t *testing.T) {
	w := NewWorker(&countingSweeper{}, 0)
	assert.Equal(t, time.Hour, w.Interval)
}
