// Package dump provides textual views over an *arena.Arena's published,
// read-only state: a heap map, an ASCII block visualization, and a stats
// printer. None of this package's output format is normative; it exists to
// give cmd/segarenademo something to print and to make the engine's
// exported inspectors easy to eyeball while developing against it.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudfly/segarena/arena"
)

// HeapMap renders one line per block: offset, size, state, and alloc ID.
func HeapMap(a *arena.Arena) string {
	var b strings.Builder
	a.Blocks(func(info arena.BlockInfo) bool {
		state := "USED"
		if info.Free {
			state = "FREE"
		}
		fmt.Fprintf(&b, "%08x  %8d bytes  %s", info.Offset, info.PayloadSize, state)
		if !info.Free {
			fmt.Fprintf(&b, "  id=%d", info.AllocID)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// ASCII renders a compact bar with one run of characters per block: 'U' for
// used blocks, '.' for free ones, each run payload_size/64+1 characters long.
func ASCII(a *arena.Arena) string {
	var b strings.Builder
	a.Blocks(func(info arena.BlockInfo) bool {
		cells := int(info.PayloadSize/64) + 1
		ch := byte('.')
		if !info.Free {
			ch = 'U'
		}
		b.WriteString(strings.Repeat(string(ch), cells))
		return true
	})
	b.WriteByte('\n')
	return b.String()
}

// PrintStats writes a human-readable rendering of a.Stats() to w.
func PrintStats(w io.Writer, a *arena.Arena) {
	s := a.Stats()
	fmt.Fprintf(w, "live:  %8d bytes across %6d blocks\n", s.LiveBytes, s.LiveBlocks)
	fmt.Fprintf(w, "free:  %8d bytes across %6d blocks\n", s.FreeBytes, s.FreeBlocks)
	fmt.Fprintf(w, "alloc: %8d total, %8d failed\n", s.TotalAllocations, s.FailedAllocation)
	fmt.Fprintf(w, "free:  %8d total\n", s.TotalFrees)
	fmt.Fprintf(w, "requested: %8d bytes, overhead: %8d bytes\n", s.RequestedBytes, s.OverheadBytes)
	fmt.Fprintf(w, "largest free block:  %8d bytes\n", s.LargestFreeBlock)
	fmt.Fprintf(w, "smallest free block: %8d bytes\n", s.SmallestFreeBlock)
	fmt.Fprintf(w, "time in allocate: %s, time in free: %s\n", s.TimeInAllocate, s.TimeInFree)
}

// LeakReport renders every currently tracked live allocation, for use at
// teardown time when Config.LeakDetection is enabled.
func LeakReport(a *arena.Arena) string {
	var b strings.Builder
	a.LiveAllocations(func(rec arena.AllocRecord) bool {
		fmt.Fprintf(&b, "leak: id=%d size=%d at %s:%d\n", rec.AllocID, rec.UserSize, rec.SourceFile, rec.SourceLine)
		return true
	})
	return b.String()
}
