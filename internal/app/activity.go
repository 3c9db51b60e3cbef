// Package app holds process-level plumbing shared by the CLI and the server.
package app

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultIdleCheck is how often the idle watcher looks at the clock.
const DefaultIdleCheck = 10 * time.Second

// Activity records when the service last handled a request. The zero value
// is ready to use and counts as "just touched" once Touch is called.
type Activity struct {
	last atomic.Int64
	now  func() time.Time
}

// NewActivity returns a tracker touched at creation time.
func NewActivity(now func() time.Time) *Activity {
	if now == nil {
		now = time.Now
	}
	a := &Activity{now: now}
	a.Touch()
	return a
}

func (a *Activity) clock() time.Time {
	if a.now == nil {
		return time.Now()
	}
	return a.now()
}

// Touch marks the current time as the last activity.
func (a *Activity) Touch() {
	a.last.Store(a.clock().UnixNano())
}

// Last returns the time of the last activity.
func (a *Activity) Last() time.Time {
	return time.Unix(0, a.last.Load())
}

// IdleFor returns how long the service has been idle.
func (a *Activity) IdleFor() time.Duration {
	return a.clock().Sub(a.Last())
}

// WatchIdle blocks until ctx is done or the tracker has been idle for at
// least timeout, checking every tick. It reports whether the idle timeout
// fired. A non-positive timeout disables the watcher.
func WatchIdle(ctx context.Context, a *Activity, timeout, tick time.Duration) bool {
	if timeout <= 0 {
		<-ctx.Done()
		return false
	}
	if tick <= 0 {
		tick = DefaultIdleCheck
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			if a.IdleFor() >= timeout {
				return true
			}
		}
	}
}

// WithIdleShutdown returns a context cancelled when ctx ends or when the
// tracker stays idle for timeout. onIdle runs before cancellation when the
// idle timeout is the cause.
func WithIdleShutdown(ctx context.Context, a *Activity, timeout, tick time.Duration, onIdle func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		if WatchIdle(ctx, a, timeout, tick) {
			if onIdle != nil {
				onIdle()
			}
			cancel()
		}
	}()
	return ctx, cancel
}
