package arena_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudfly/segarena/arena"
)

func TestStatsDisabledReturnsZeroValue(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(1 << 16)
	cfg.EnableStats = false
	a, err := arena.New(make([]byte, 1<<16), cfg)
	require.NoError(t, err)

	_, err = a.Allocate(64, "t", 0)
	require.NoError(t, err)

	assert.Zero(t, a.Stats())
}

func TestStatsTrackLiveAndFreeCounts(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)

	p1, err := a.Allocate(64, "t", 0)
	require.NoError(t, err)
	p2, err := a.Allocate(128, "t", 0)
	require.NoError(t, err)

	s := a.Stats()
	assert.Equal(t, uint64(2), s.LiveBlocks)
	assert.Equal(t, uint64(2), s.TotalAllocations)

	a.Free(p1)

	s = a.Stats()
	assert.Equal(t, uint64(1), s.LiveBlocks)
	assert.Equal(t, uint64(1), s.TotalFrees)

	a.Free(p2)
}

func TestStatsCountsFailedAllocations(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<12)

	for {
		if _, err := a.Allocate(128, "t", 0); err != nil {
			break
		}
	}

	s := a.Stats()
	assert.Positive(t, s.FailedAllocation)
}

// TestLeakCheckReportsRemainingAllocations allocates 100 blocks, frees 50
// at alternating indices, and checks the leak report accounts for exactly
// the remaining 50.
func TestLeakCheckReportsRemainingAllocations(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<20)

	var ptrs []unsafe.Pointer
	for i := 0; i < 100; i++ {
		p, err := a.Allocate(32, "t", i)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}

	for i, p := range ptrs {
		if i%2 == 0 {
			a.Free(p)
		}
	}

	var live int
	a.LiveAllocations(func(rec arena.AllocRecord) bool {
		live++
		assert.NotZero(t, rec.AllocID)
		return true
	})

	assert.Equal(t, 50, live)
}

func TestLeakDetectionDisabledTracksNothing(t *testing.T) {
	t.Parallel()

	cfg := arena.DefaultConfig(1 << 16)
	cfg.LeakDetection = false
	a, err := arena.New(make([]byte, 1<<16), cfg)
	require.NoError(t, err)

	_, err = a.Allocate(64, "t", 0)
	require.NoError(t, err)

	var live int
	a.LiveAllocations(func(arena.AllocRecord) bool { live++; return true })
	assert.Zero(t, live)
}
