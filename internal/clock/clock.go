package clock

import (
	"context"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock only moves when Set or Advance is called.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Format renders the time of day as HH:MM:SS.
func Format(t time.Time) string {
	return t.Format("15:04:05")
}

// Stream calls emit with the current time right away and then on every tick
// until ctx is done or emit returns an error. The ticker is stopped on return.
func Stream(ctx context.Context, c Clock, interval time.Duration, emit func(time.Time) error) error {
	if c == nil {
		c = RealClock{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	if err := emit(c.Now()); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := emit(c.Now()); err != nil {
				return err
			}
		}
	}
}
