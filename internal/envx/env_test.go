package envx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReaders(t *testing.T) {
	t.Setenv("ENVX_S", "value")
	t.Setenv("ENVX_I", "42")
	t.Setenv("ENVX_I_BAD", "forty")
	t.Setenv("ENVX_B", "true")
	t.Setenv("ENVX_D", "750ms")

	assert.Equal(t, "value", String("ENVX_S", "x"))
	assert.Equal(t, "x", String("ENVX_MISSING", "x"))
	assert.Equal(t, 42, Int("ENVX_I", 1))
	assert.Equal(t, 1, Int("ENVX_I_BAD", 1))
	assert.True(t, Bool("ENVX_B", false))
	assert.False(t, Bool("ENVX_MISSING", false))
	assert.Equal(t, 750*time.Millisecond, Duration("ENVX_D", time.Second))
	assert.Equal(t, time.Second, Duration("ENVX_MISSING", time.Second))
}
