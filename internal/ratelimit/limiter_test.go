package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestLimiter_WindowFillsAndRecovers(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := New(10, 60*time.Second, WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		require.True(t, l.CanMakeRequest(), "call %d", i+1)
		clock.Advance(time.Second)
	}
	assert.False(t, l.CanMakeRequest(), "11th call must be rejected")

	// oldest entry is 10s old, so 50s remain
	assert.Equal(t, 50*time.Second, l.TimeUntilReset())

	clock.Advance(61 * time.Second)
	assert.True(t, l.CanMakeRequest())
}

func TestLimiter_SlidesOneSlotAtATime(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	l := New(2, 10*time.Second, WithClock(clock.Now))

	require.True(t, l.CanMakeRequest())
	clock.Advance(5 * time.Second)
	require.True(t, l.CanMakeRequest())
	require.False(t, l.CanMakeRequest())

	clock.Advance(5 * time.Second)
	assert.True(t, l.CanMakeRequest(), "first slot expired exactly at window end")
	assert.False(t, l.CanMakeRequest())
}

func TestLimiter_TimeUntilResetEmpty(t *testing.T) {
	l := New(0, 0)
	assert.Equal(t, time.Duration(0), l.TimeUntilReset())
	assert.Equal(t, DefaultMaxRequests, l.maxRequests)
	assert.Equal(t, DefaultWindow, l.window)
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Hour)
	require.True(t, l.CanMakeRequest())
	require.False(t, l.CanMakeRequest())
	l.Reset()
	assert.True(t, l.CanMakeRequest())
}

func TestLimiter_ConcurrentCallersNeverExceedLimit(t *testing.T) {
	l := New(10, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CanMakeRequest() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}
