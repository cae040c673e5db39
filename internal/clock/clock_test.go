package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 5, 7, 0, time.UTC)
	c := NewFakeClock(start)

	assert.Equal(t, "09:05:07", Format(c.Now()))
	c.Advance(time.Hour + 2*time.Second)
	assert.Equal(t, "10:05:09", Format(c.Now()))
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestStream_EmitsImmediatelyThenTicks(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []time.Time
	err := Stream(ctx, NewFakeClock(time.Unix(0, 0)), 5*time.Millisecond, func(now time.Time) error {
		got = append(got, now)
		if len(got) == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, got, 3)
}

func TestStream_StopsOnEmitError(t *testing.T) {
	defer goleak.VerifyNone(t)

	stop := errors.New("client gone")
	calls := 0
	err := Stream(context.Background(), RealClock{}, time.Millisecond, func(time.Time) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestStream_RunsInGoroutineUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Stream(ctx, RealClock{}, time.Millisecond, func(now time.Time) error {
			select {
			case ticks <- Format(now):
			default:
			}
			return nil
		})
	}()

	<-ticks
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
