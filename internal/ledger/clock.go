package ledger

import (
	"context"
	"sync"
	"time"
)

// UnixClock uses wall clock seconds as logical time
type UnixClock struct{}

func (UnixClock) Now(context.Context) (LogicalTime, error) {
	return LogicalTime(time.Now().Unix()), nil
}

// ManualClock only moves when told to
type ManualClock struct {
	now LogicalTime
	mu  sync.Mutex
}

func NewManualClock(now LogicalTime) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now(context.Context) (LogicalTime, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now, nil
}

// Set ignores attempts to move the clock backwards
func (c *ManualClock) Set(now LogicalTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now > c.now {
		c.now = now
	}
}

func (c *ManualClock) Advance(d LogicalTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
