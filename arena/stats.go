package arena

import "time"

// Stats is a snapshot of the allocator's aggregate counters. It is a plain
// value type safe to read after Arena.Stats returns it (the Arena itself
// holds the live, mutex-guarded copy).
type Stats struct {
	LiveBytes  uint64
	LiveBlocks uint64
	FreeBytes  uint64
	FreeBlocks uint64

	TotalAllocations uint64
	TotalFrees       uint64
	FailedAllocation uint64

	RequestedBytes uint64 // sum of request_size across live blocks
	OverheadBytes  uint64 // sum of (payload_size - request_size) across live blocks

	LargestFreeBlock  uint32
	SmallestFreeBlock uint32

	PerClassLiveBytes [numSizeClasses]uint64

	TimeInAllocate time.Duration
	TimeInFree     time.Duration
}

// Stats returns a snapshot of the current statistics. Returns the zero
// value if Config.EnableStats is false.
func (a *Arena) Stats() Stats {
	if !a.cfg.EnableStats {
		return Stats{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

func (a *Arena) recordAllocate(dur time.Duration, class int, requested, payload uint32) {
	if !a.cfg.EnableStats {
		return
	}
	a.stats.TotalAllocations++
	a.stats.LiveBlocks++
	a.stats.LiveBytes += uint64(payload)
	a.stats.RequestedBytes += uint64(requested)
	if payload >= requested {
		a.stats.OverheadBytes += uint64(payload - requested)
	}
	a.stats.PerClassLiveBytes[class] += uint64(payload)
	a.stats.TimeInAllocate += dur
	a.recomputeFragmentation()
}

func (a *Arena) recordFailedAllocation() {
	if !a.cfg.EnableStats {
		return
	}
	a.stats.FailedAllocation++
}

func (a *Arena) recordFree(dur time.Duration, class int, requested, payload uint32) {
	if !a.cfg.EnableStats {
		return
	}
	a.stats.TotalFrees++
	if a.stats.LiveBlocks > 0 {
		a.stats.LiveBlocks--
	}
	if a.stats.LiveBytes >= uint64(payload) {
		a.stats.LiveBytes -= uint64(payload)
	}
	if a.stats.RequestedBytes >= uint64(requested) {
		a.stats.RequestedBytes -= uint64(requested)
	}
	if payload >= requested {
		overhead := uint64(payload - requested)
		if a.stats.OverheadBytes >= overhead {
			a.stats.OverheadBytes -= overhead
		}
	}
	if a.stats.PerClassLiveBytes[class] >= uint64(payload) {
		a.stats.PerClassLiveBytes[class] -= uint64(payload)
	}
	a.stats.TimeInFree += dur
	a.recomputeFragmentation()
}

// recomputeFragmentation walks every free list and recomputes
// FreeBytes/FreeBlocks/Largest/SmallestFreeBlock from scratch. Called at the
// end of every mutating operation so Stats always reflects a full-arena walk
// rather than incremental bookkeeping that could drift.
func (a *Arena) recomputeFragmentation() {
	var freeBytes uint64
	var freeBlocks uint64
	var largest uint32
	smallest := ^uint32(0)

	for c := range a.freeLists {
		for cur := a.freeLists[c].head; cur != blockRefNone; cur = a.headerAt(cur).listNext {
			h := a.headerAt(cur)
			freeBytes += uint64(h.payloadSize)
			freeBlocks++
			if h.payloadSize > largest {
				largest = h.payloadSize
			}
			if h.payloadSize < smallest {
				smallest = h.payloadSize
			}
		}
	}

	if freeBlocks == 0 {
		smallest = 0
	}

	a.stats.FreeBytes = freeBytes
	a.stats.FreeBlocks = freeBlocks
	a.stats.LargestFreeBlock = largest
	a.stats.SmallestFreeBlock = smallest
}
