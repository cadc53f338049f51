package arena

import "unsafe"

// blockHeader is the fixed-size header every block (free or used) carries
// at its low address. The struct is overlaid directly onto arena bytes via
// unsafe pointer arithmetic rather than copied in and out, so field order
// here is load-bearing only insofar as Go's struct layout rules are
// deterministic for a single compilation of this package.
type blockHeader struct {
	startSentinel uint32
	payloadSize   uint32
	requestSize   uint32
	allocID       uint64
	addressTag    uint64 // 0 == none (free); nonzero == live marker
	listPrev      blockRef
	listNext      blockRef
	free          bool
	_             [3]byte // explicit padding: this struct overlays raw memory
	endSentinel   uint32
}

// blockFooter mirrors payload_size and free, plus its own sentinel. Only
// meaningful when Config.BoundaryTags is enabled; footerSize is 0 otherwise
// and no footer bytes are reserved.
type blockFooter struct {
	payloadSize    uint32
	free           bool
	_              [3]byte
	footerSentinel uint32
}

func (a *Arena) headerAt(off blockRef) *blockHeader {
	return (*blockHeader)(unsafe.Add(a.base, uintptr(off)))
}

func (a *Arena) footerAt(off blockRef) *blockFooter {
	return (*blockFooter)(unsafe.Add(a.base, uintptr(off)))
}

// footerOf returns the offset of block's footer, valid whenever
// Config.BoundaryTags is enabled.
func (a *Arena) footerOf(off blockRef) blockRef {
	h := a.headerAt(off)
	return off + blockRef(a.headerSize) + blockRef(h.payloadSize)
}

// writeFooter stamps (or, when footers are disabled, does nothing for) the
// footer of the block at off.
func (a *Arena) writeFooter(off blockRef, payloadSize uint32, free bool) {
	if a.footerSize == 0 {
		return
	}
	f := a.footerAt(off + blockRef(a.headerSize) + blockRef(payloadSize))
	f.payloadSize = payloadSize
	f.free = free
	f.footerSentinel = FooterSentinel
}

// nextPhysical returns the offset immediately following block, valid iff
// that address plus a header still fits within the arena.
func (a *Arena) nextPhysical(off blockRef) (blockRef, bool) {
	h := a.headerAt(off)
	next := off + blockRef(a.headerSize) + blockRef(h.payloadSize) + blockRef(a.footerSize)
	if uint32(next)+a.headerSize > uint32(len(a.buf)) {
		return 0, false
	}
	return next, true
}

// prevPhysical returns the block immediately preceding off, or ok=false if
// off begins at the arena base, boundary tags are disabled, or the
// preceding footer's sentinel is invalid. A corrupted footer is treated as
// "no prev" rather than as fatal, since backward coalescing is an
// optimization, not a correctness requirement.
func (a *Arena) prevPhysical(off blockRef) (blockRef, bool) {
	if a.footerSize == 0 || off < blockRef(a.footerSize) {
		return 0, false
	}
	footerOff := off - blockRef(a.footerSize)
	f := a.footerAt(footerOff)
	if f.footerSentinel != FooterSentinel {
		return 0, false
	}
	prevTotal := blockRef(a.headerSize) + blockRef(f.payloadSize) + blockRef(a.footerSize)
	if prevTotal > off {
		return 0, false
	}
	prevOff := off - prevTotal
	h := a.headerAt(prevOff)
	if h.startSentinel != SentinelValue || h.endSentinel != SentinelValue {
		return 0, false
	}
	return prevOff, true
}

// classOf returns the size-class index: the lowest class whose bound is
// >= size, or the catch-all class 7.
func (a *Arena) classOf(size uint32) int {
	for i, bound := range a.classBounds {
		if size <= bound {
			return i
		}
	}
	return numSizeClasses - 1
}

// align rounds n up to Config.Alignment.
func (a *Arena) align(n uint32) uint32 {
	return alignUp(n, a.cfg.Alignment)
}

// payloadPtr returns a pointer to the start of block off's payload (the
// first byte after its header).
func (a *Arena) payloadPtr(off blockRef) unsafe.Pointer {
	return unsafe.Add(a.base, uintptr(off)+uintptr(a.headerSize))
}

// offsetOfUser maps a pointer previously returned to a caller (by Allocate,
// Resize, or CountInit) back to the owning block's header offset, or
// ok=false if ptr does not fall within the managed arena.
func (a *Arena) offsetOfUser(ptr unsafe.Pointer) (blockRef, bool) {
	start := uintptr(a.base)
	end := start + uintptr(len(a.buf))
	p := uintptr(ptr)
	if p < start || p >= end {
		return 0, false
	}
	diff := p - start
	internal := diff
	if a.cfg.MemoryGuards {
		if diff < uintptr(a.cfg.Alignment) {
			return 0, false
		}
		internal = diff - uintptr(a.cfg.Alignment)
	}
	if internal < uintptr(a.headerSize) {
		return 0, false
	}
	blockOff := internal - uintptr(a.headerSize)
	if blockOff > uintptr(^blockRef(0)) {
		return 0, false
	}
	return blockRef(blockOff), true
}

// userPtr computes the pointer handed back to the caller for a freshly
// (re)allocated block: the payload start, skipped past the leading red
// zone when guards are enabled.
func (a *Arena) userPtr(off blockRef) unsafe.Pointer {
	p := a.payloadPtr(off)
	if a.cfg.MemoryGuards {
		p = unsafe.Add(p, uintptr(a.cfg.Alignment))
	}
	return p
}
