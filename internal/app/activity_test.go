package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestActivityIdleFor(t *testing.T) {
	clk := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	a := NewActivity(clk.Now)
	assert.Equal(t, time.Duration(0), a.IdleFor())

	clk.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, a.IdleFor())

	a.Touch()
	assert.Equal(t, time.Duration(0), a.IdleFor())
	assert.True(t, a.Last().Equal(clk.Now()))
}

func TestWithIdleShutdownFires(t *testing.T) {
	clk := &fakeClock{t: time.Now()}
	a := NewActivity(clk.Now)
	clk.Advance(time.Hour)

	fired := make(chan struct{})
	ctx, cancel := WithIdleShutdown(context.Background(), a, time.Minute, time.Millisecond, func() { close(fired) })
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle watcher did not cancel the context")
	}
	select {
	case <-fired:
	default:
		t.Fatal("onIdle was not called")
	}
}

func TestWatchIdleStopsWithContext(t *testing.T) {
	a := NewActivity(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() { done <- WatchIdle(ctx, a, time.Hour, time.Millisecond) }()
	cancel()
	select {
	case fired := <-done:
		require.False(t, fired)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchIdleDisabled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, WatchIdle(ctx, NewActivity(nil), 0, time.Millisecond))
}

func TestWithIdleShutdownReleasesWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := WithIdleShutdown(context.Background(), NewActivity(nil), time.Hour, time.Millisecond, nil)
	cancel()
	<-ctx.Done()
}
