package arena_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudfly/segarena/arena"
)

func newTestArena(t *testing.T, heapSize uint32) *arena.Arena {
	t.Helper()
	a, err := arena.New(make([]byte, heapSize), arena.DefaultConfig(heapSize))
	require.NoError(t, err)
	return a
}

func readBytes(ptr unsafe.Pointer, n uint32) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}

// TestAllocateBasics covers the basic allocate/read/free lifecycle.
func TestAllocateBasics(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<20)

	p, err := a.Allocate(100, "lifecycle_test.go", 0)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, uint32(100), a.SizeOf(p))
	assert.Zero(t, uintptr(p)%arena.DefaultAlignment, "user pointer must be alignment-aligned")

	for _, b := range readBytes(p, 100) {
		assert.Zero(t, b, "freshly allocated bytes must read as zero")
	}

	assertInvariants(t, a)
}

func TestAllocateZeroReturnsInvalidArgument(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.Allocate(0, "t", 0)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, arena.ErrInvalidArgument)
}

func TestAllocateNearCapacitySucceedsThenFails(t *testing.T) {
	t.Parallel()

	const heapSize = 1 << 16
	a := newTestArena(t, heapSize)

	// Comfortably under capacity once header/footer/guard overhead is
	// accounted for: must succeed.
	p, err := a.Allocate(heapSize-4*arena.DefaultAlignment-a.HeaderSize()-a.FooterSize(), "t", 0)
	require.NoError(t, err)
	require.NotNil(t, p)

	// Clearly beyond remaining capacity: must fail.
	_, err = a.Allocate(heapSize, "t", 0)
	assert.ErrorIs(t, err, arena.ErrOutOfMemory)
}

// TestResizeGrowCopiesContent covers Resize's allocate-copy-free grow path.
func TestResizeGrowCopiesContent(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<20)

	p, err := a.Allocate(100, "t", 0)
	require.NoError(t, err)

	src := readBytes(p, 100)
	for i := range src {
		src[i] = byte(i)
	}

	q, err := a.Resize(p, 200, "t", 0)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, uint32(200), a.SizeOf(q))

	got := readBytes(q, 100)
	for i := range got {
		assert.Equal(t, byte(i), got[i])
	}

	assertInvariants(t, a)
}

func TestResizeNilActsAsAllocate(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.Resize(nil, 64, "t", 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), a.SizeOf(p))
}

func TestResizeZeroActsAsFree(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.Allocate(64, "t", 0)
	require.NoError(t, err)

	q, err := a.Resize(p, 0, "t", 0)
	assert.NoError(t, err)
	assert.Nil(t, q)
	assert.Zero(t, a.SizeOf(p))

	assertInvariants(t, a)
}

func TestResizeRoundTripPreservesSizeAndContent(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.Allocate(48, "t", 0)
	require.NoError(t, err)

	buf := readBytes(p, 48)
	for i := range buf {
		buf[i] = byte(i + 1)
	}

	q, err := a.Resize(p, a.SizeOf(p), "t", 0)
	require.NoError(t, err)
	assert.Equal(t, a.SizeOf(p), a.SizeOf(q))

	got := readBytes(q, 48)
	for i := range got {
		assert.Equal(t, byte(i+1), got[i])
	}
}

// TestDoubleFreeIsDetectedAndRecovered covers the double-free diagnostic
// path and confirms the arena stays usable afterward.
func TestDoubleFreeIsDetectedAndRecovered(t *testing.T) {
	t.Parallel()

	var got []arena.Violation
	cfg := arena.DefaultConfig(1 << 16)
	cfg.Diagnostics = diagnosticsFunc(func(v arena.Violation) { got = append(got, v) })

	a, err := arena.New(make([]byte, 1<<16), cfg)
	require.NoError(t, err)

	p, err := a.Allocate(50, "t", 0)
	require.NoError(t, err)

	a.Free(p)
	a.Free(p)

	require.Len(t, got, 1)
	assert.Equal(t, arena.ViolationDoubleFree, got[0].Kind)

	p2, err := a.Allocate(50, "t", 0)
	require.NoError(t, err)
	require.NotNil(t, p2)

	assertInvariants(t, a)
}

func TestFreeNilIsNoOp(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	assert.NotPanics(t, func() { a.Free(nil) })
}

func TestCountInitOverflowReturnsInvalidArgument(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.CountInit(^uint32(0), 2, "t", 0)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, arena.ErrInvalidArgument)
}

func TestCountInitZeroesElements(t *testing.T) {
	t.Parallel()

	a := newTestArena(t, 1<<16)
	p, err := a.CountInit(10, 8, "t", 0)
	require.NoError(t, err)

	for _, b := range readBytes(p, 80) {
		assert.Zero(t, b)
	}
}

type diagnosticsFunc func(arena.Violation)

func (f diagnosticsFunc) Report(v arena.Violation) { f(v) }
