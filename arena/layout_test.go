package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudfly/segarena/arena"
)

func TestDefaultConfigEnablesEveryFeature(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(1 << 20)
	assert.True(t, cfg.ThreadSafe)
	assert.True(t, cfg.EnableStats)
	assert.True(t, cfg.MemoryGuards)
	assert.True(t, cfg.BoundaryTags)
	assert.True(t, cfg.CacheLocality)
	assert.True(t, cfg.LeakDetection)
}

func TestNewRejectsNonPowerOfTwoAlignment(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(1 << 20)
	cfg.Alignment = 17

	_, err := arena.New(make([]byte, 1<<20), cfg)
	assert.Error(t, err)
}

func TestNewRejectsUndersizedBuffer(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(8)
	_, err := arena.New(make([]byte, 8), cfg)
	assert.Error(t, err)
}

func TestNewAcceptsArenaSizedExactlyOneBlock(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(1 << 16)
	a, err := arena.New(make([]byte, 1<<16), cfg)
	require := assert.New(t)
	require.NoError(err)
	require.NotNil(a)
}
