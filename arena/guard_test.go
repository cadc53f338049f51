package arena_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudfly/segarena/arena"
)

// TestBufferOverrunIsDetectedOnFree corrupts a guard byte and checks that
// it is reported but the block is still reclaimed.
func TestBufferOverrunIsDetectedOnFree(t *testing.T) {
	t.Parallel()

	var got []arena.Violation
	cfg := arena.DefaultConfig(1 << 16)
	cfg.Diagnostics = diagnosticsFunc(func(v arena.Violation) { got = append(got, v) })

	a, err := arena.New(make([]byte, 1<<16), cfg)
	require.NoError(t, err)

	p, err := a.Allocate(32, "t", 0)
	require.NoError(t, err)

	// Corrupt the byte immediately preceding the user region (inside the
	// leading red zone).
	before := (*byte)(unsafe.Add(p, -1))
	*before = arena.GuardValue ^ 0xFF

	a.Free(p)

	require.Len(t, got, 1)
	assert.Equal(t, arena.ViolationBufferOverrun, got[0].Kind)

	assertInvariants(t, a)
}

func TestGuardsUntouchedProduceNoViolation(t *testing.T) {
	t.Parallel()

	var got []arena.Violation
	cfg := arena.DefaultConfig(1 << 16)
	cfg.Diagnostics = diagnosticsFunc(func(v arena.Violation) { got = append(got, v) })

	a, err := arena.New(make([]byte, 1<<16), cfg)
	require.NoError(t, err)

	p, err := a.Allocate(32, "t", 0)
	require.NoError(t, err)

	a.Free(p)

	assert.Empty(t, got)
}
