package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyLastRuns(t *testing.T) {
	d := New(30 * time.Millisecond)

	var ran atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Schedule(func() {
			ran.Add(1)
			last.Store(v)
		})
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New(20 * time.Millisecond)

	var ran atomic.Bool
	d.Schedule(func() { ran.Store(true) })
	require.True(t, d.Pending())
	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestDebouncer_CloseRejectsFutureWork(t *testing.T) {
	d := New(10 * time.Millisecond)

	var ran atomic.Int32
	d.Schedule(func() { ran.Add(1) })
	d.Close()
	d.Schedule(func() { ran.Add(1) })

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), ran.Load())
	assert.False(t, d.Pending())
}
