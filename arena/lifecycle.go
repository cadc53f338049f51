package arena

import (
	"time"
	"unsafe"
)

// Allocate reserves at least size bytes and returns a pointer to a
// zero-filled, Alignment-aligned region. file and line identify the call
// site for leak reporting; pass runtime.Caller(1)'s result, or any
// caller-meaningful label.
func (a *Arena) Allocate(size uint32, file string, line int) (unsafe.Pointer, error) {
	a.ensureInitialized()

	if size == 0 {
		return nil, ErrInvalidArgument
	}

	start := time.Now()

	a.lock()
	defer a.unlock()

	required := size
	if a.cfg.MemoryGuards {
		required += 2 * a.cfg.Alignment
	}
	required = a.align(required)

	off, ok := a.find(required)
	if !ok {
		a.recordFailedAllocation()
		return nil, a.wrapf(ErrOutOfMemory, "allocate(%d) at %s:%d", size, file, line)
	}

	// off is currently linked into the free list for its pre-split size;
	// capture that class now, since split() never moves off itself, only
	// carves a new block out of its tail.
	originalClass := a.classOf(a.headerAt(off).payloadSize)
	a.split(off, required)

	h := a.headerAt(off)
	a.unlinkFree(originalClass, off)

	allocID := a.nextAllocID
	a.nextAllocID++

	h.free = false
	h.requestSize = size
	h.allocID = allocID
	h.addressTag = allocID
	a.writeFooter(off, h.payloadSize, false)
	a.insertUsed(off)

	ptr := a.userPtr(off)
	if a.cfg.MemoryGuards {
		a.stampGuards(off, size)
	}
	zeroBytes(ptr, size)

	if a.cfg.LeakDetection {
		a.tracking.append(AllocRecord{
			UserPtr:    ptr,
			UserSize:   size,
			AllocID:    allocID,
			SourceFile: file,
			SourceLine: line,
		})
	}

	a.recordAllocate(time.Since(start), a.classOf(h.payloadSize), size, h.payloadSize)

	return ptr, nil
}

// Free releases the block owning ptr. A nil ptr is a no-op. Double-frees
// and buffer overruns are reported through Config.Diagnostics rather than
// returned; Free always "succeeds" from the caller's perspective.
func (a *Arena) Free(ptr unsafe.Pointer) {
	a.ensureInitialized()

	if ptr == nil {
		return
	}

	start := time.Now()

	a.lock()
	defer a.unlock()

	off, ok := a.offsetOfUser(ptr)
	if !ok {
		a.cfg.Diagnostics.Report(Violation{
			Kind: ViolationOutOfBounds, Where: "free", Ptr: ptr,
			Message: outOfBoundsMessage("free", ptr),
		})
		return
	}

	a.validateBlock(off, "free")

	h := a.headerAt(off)
	if h.free {
		a.cfg.Diagnostics.Report(Violation{
			Kind: ViolationDoubleFree, Where: "free", Ptr: ptr, AllocID: h.allocID,
			Message: doubleFreeMessage(ptr, h.allocID),
		})
		return
	}

	if a.cfg.MemoryGuards && !a.checkGuards(off, h.requestSize) {
		a.cfg.Diagnostics.Report(Violation{
			Kind: ViolationBufferOverrun, Where: "free", Ptr: ptr, AllocID: h.allocID,
			Message: bufferOverrunMessage(ptr, h.allocID),
		})
	}

	class := a.classOf(h.payloadSize)
	requested := h.requestSize
	payload := h.payloadSize

	a.unlinkUsed(off)
	h.free = true
	h.addressTag = 0
	a.writeFooter(off, h.payloadSize, true)
	a.insertFree(class, off)

	a.coalesce(off)

	if a.cfg.LeakDetection {
		a.tracking.remove(ptr)
	}

	a.recordFree(time.Since(start), class, requested, payload)
}

// Resize changes the size of the block owning ptr: a nil ptr behaves as
// Allocate, a zero newSize behaves as Free, a shrinking or in-place-fitting
// request is handled without moving data, and a growing request allocates
// fresh, copies, and frees the original. The grow path releases the mutex
// around its internal Allocate/Free calls, so Resize is not atomic with
// respect to concurrent callers.
func (a *Arena) Resize(ptr unsafe.Pointer, newSize uint32, file string, line int) (unsafe.Pointer, error) {
	if ptr == nil {
		return a.Allocate(newSize, file, line)
	}
	if newSize == 0 {
		a.Free(ptr)
		return nil, nil
	}

	a.ensureInitialized()

	a.lock()

	off, ok := a.offsetOfUser(ptr)
	if !ok {
		a.unlock()
		return nil, ErrInvalidPointer
	}
	h := a.headerAt(off)
	current := h.requestSize
	if current == 0 || h.startSentinel != SentinelValue || h.endSentinel != SentinelValue {
		a.unlock()
		return nil, ErrInvalidPointer
	}

	required := newSize
	if a.cfg.MemoryGuards {
		required += 2 * a.cfg.Alignment
	}
	required = a.align(required)

	if required <= h.payloadSize {
		oldPayload, oldClass := h.payloadSize, a.classOf(h.payloadSize)
		if h.payloadSize >= required+a.headerSize+a.footerSize+a.minBlockSize {
			a.split(off, required)
			h = a.headerAt(off)
			if next, ok := a.nextPhysical(off); ok && h.payloadSize != oldPayload {
				a.coalesce(next)
			}
		}
		if a.cfg.EnableStats {
			a.stats.LiveBytes = a.stats.LiveBytes - uint64(oldPayload) + uint64(h.payloadSize)
			a.stats.RequestedBytes = a.stats.RequestedBytes - uint64(current) + uint64(newSize)
			a.stats.OverheadBytes = a.stats.OverheadBytes - uint64(oldPayload-current) + uint64(h.payloadSize-newSize)
			a.stats.PerClassLiveBytes[oldClass] -= uint64(oldPayload)
			a.stats.PerClassLiveBytes[a.classOf(h.payloadSize)] += uint64(h.payloadSize)
			a.recomputeFragmentation()
		}
		h.requestSize = newSize
		a.writeFooter(off, h.payloadSize, false)
		if a.cfg.MemoryGuards {
			a.stampGuards(off, newSize)
		}
		if a.cfg.LeakDetection {
			a.tracking.updateSize(ptr, newSize)
		}
		a.unlock()
		return ptr, nil
	}

	a.unlock()

	newPtr, err := a.Allocate(newSize, file, line)
	if err != nil {
		return nil, err
	}

	copySize := current
	if newSize < copySize {
		copySize = newSize
	}
	copyBytes(newPtr, ptr, uintptr(copySize))

	a.Free(ptr)

	return newPtr, nil
}

// CountInit allocates storage for n elements of elemSize bytes each,
// returning null on an n*elemSize overflow. Zero-filling is already
// guaranteed by Allocate.
func (a *Arena) CountInit(n, elemSize uint32, file string, line int) (unsafe.Pointer, error) {
	if n > 0 && elemSize > (^uint32(0))/n {
		return nil, ErrInvalidArgument
	}
	return a.Allocate(n*elemSize, file, line)
}

// SizeOf returns the request_size of the live block owning ptr, or 0 if ptr
// does not resolve to a live, sentinel-valid block. Deliberately does not
// take the mutex, so it stays callable from a diagnostics callback running
// under Free's own lock.
func (a *Arena) SizeOf(ptr unsafe.Pointer) uint32 {
	if ptr == nil {
		return 0
	}
	off, ok := a.offsetOfUser(ptr)
	if !ok {
		return 0
	}
	h := a.headerAt(off)
	if h.free || h.startSentinel != SentinelValue || h.endSentinel != SentinelValue {
		return 0
	}
	return h.requestSize
}
