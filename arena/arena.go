// Package arena implements a segregated free-list allocator over a single
// fixed-size, pre-reserved byte region.
//
// The design follows the shape of a size-class-and-free-list allocator in
// the style of the Go runtime's own tcmalloc-derived allocator: requests
// are rounded into one of a small number of size classes, each class owns
// its own free list, and a single lock serializes every mutation of shared
// allocator state. Where the runtime allocator returns spans to a tracing
// garbage collector, this package instead coalesces physically adjacent
// free blocks via boundary tags, since there is no GC backing this arena —
// once a byte is unreachable from any live block, coalescing is the only
// way to reclaim it into a usable run again.
package arena

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// blockRef is a byte offset from the arena's base address. Using offsets
// instead of raw pointers keeps every intra-arena link valid independent of
// how the Go runtime chooses to view the backing slice.
type blockRef uint32

// blockRefNone is the "no block" / "none" sentinel for list links.
const blockRefNone blockRef = ^blockRef(0)

// Arena manages a single contiguous byte region, serving allocate/free/
// resize/count-init requests from segregated free lists.
type Arena struct {
	mu sync.Mutex

	buf  []byte
	base unsafe.Pointer

	cfg Config

	headerSize   uint32
	footerSize   uint32
	minBlockSize uint32
	classBounds  [numSizeClasses - 1]uint32

	freeLists [numSizeClasses]freeList
	usedList  freeList

	nextAllocID uint64
	initialized atomic.Bool

	tracking *trackingList
	stats    Stats
}

// New constructs an Arena over buf, which becomes the allocator's entire
// managed region for the Arena's lifetime. buf must not be accessed by the
// caller after this call; ownership transfers to the Arena.
func New(buf []byte, cfg Config) (*Arena, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	a := &Arena{
		buf: buf,
		cfg: cfg,
	}
	copy(a.classBounds[:], cfg.ClassBounds)

	// Header and footer sizes are rounded up to the alignment so that every
	// block offset, and so every user pointer, stays Alignment-aligned.
	a.headerSize = alignUp(uint32(unsafe.Sizeof(blockHeader{})), cfg.Alignment)
	if cfg.BoundaryTags {
		a.footerSize = alignUp(uint32(unsafe.Sizeof(blockFooter{})), cfg.Alignment)
	}
	a.minBlockSize = alignUp(a.headerSize+cfg.Alignment, cfg.Alignment)

	if uint32(len(buf)) < a.headerSize+a.minBlockSize+a.footerSize {
		return nil, errArenaTooSmall
	}

	a.tracking = newTrackingList()

	a.initializeLocked()

	return a, nil
}

// initializeLocked creates one Free block spanning the whole arena and
// links it into its size class's free list. Idempotent: a second call is a
// no-op as long as initialized is already true.
func (a *Arena) initializeLocked() {
	if a.initialized.Load() {
		return
	}

	a.base = unsafe.Pointer(unsafe.SliceData(a.buf))
	clear(a.buf)

	for i := range a.freeLists {
		a.freeLists[i] = newFreeList()
	}
	a.usedList = newFreeList()
	a.nextAllocID = 1
	a.stats = Stats{}

	total := uint32(len(a.buf))
	payload := total - a.headerSize - a.footerSize

	h := a.headerAt(0)
	*h = blockHeader{
		startSentinel: SentinelValue,
		endSentinel:   SentinelValue,
		payloadSize:   payload,
		free:          true,
		listPrev:      blockRefNone,
		listNext:      blockRefNone,
	}
	a.writeFooter(0, payload, true)

	class := a.classOf(payload)
	a.insertFree(class, 0)

	a.initialized.Store(true)
}

// ensureInitialized performs a lock-free fast-path check, falling back to
// the mutex-guarded initializer only when necessary.
func (a *Arena) ensureInitialized() {
	if a.initialized.Load() {
		return
	}
	a.mu.Lock()
	a.initializeLocked()
	a.mu.Unlock()
}

// Close tears the Arena down: it releases the tracking list and clears all
// registries. After Close, further operations re-initialize the Arena from
// a single free block spanning the same backing buffer — Close does not
// release buf itself; the Arena does not own the memory acquisition, only
// its layout.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tracking.clear()
	for i := range a.freeLists {
		a.freeLists[i] = newFreeList()
	}
	a.usedList = newFreeList()
	a.initialized.Store(false)
	return nil
}

// Lock/Unlock honor Config.ThreadSafe: when disabled, the mutex becomes a
// no-op and callers are responsible for external synchronization.
func (a *Arena) lock() {
	if a.cfg.ThreadSafe {
		a.mu.Lock()
	}
}

func (a *Arena) unlock() {
	if a.cfg.ThreadSafe {
		a.mu.Unlock()
	}
}

// Capacity returns the total size of the managed arena in bytes.
func (a *Arena) Capacity() uint32 {
	return uint32(len(a.buf))
}

// HeaderSize returns the fixed per-block header size in bytes.
func (a *Arena) HeaderSize() uint32 {
	return a.headerSize
}

// FooterSize returns the fixed per-block footer size in bytes, or 0 when
// Config.BoundaryTags is disabled.
func (a *Arena) FooterSize() uint32 {
	return a.footerSize
}
