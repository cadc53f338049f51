// Command segarenademo exercises the arena package's public API end to
// end. It is a demo driver, not part of the allocator's normative surface —
// its output formatting is free to change at any time.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/cloudfly/segarena/arena"
	"github.com/cloudfly/segarena/internal/dump"
)

func main() {
	heapSize := flag.Uint("heap-size", 1<<20, "arena size in bytes")
	guards := flag.Bool("guards", true, "enable memory guards")
	boundaryTags := flag.Bool("boundary-tags", true, "enable boundary-tag coalescing")
	stats := flag.Bool("stats", true, "enable statistics")
	leaks := flag.Bool("leak-detection", true, "enable leak tracking")
	flag.Parse()

	cfg := arena.DefaultConfig(uint32(*heapSize))
	cfg.MemoryGuards = *guards
	cfg.BoundaryTags = *boundaryTags
	cfg.EnableStats = *stats
	cfg.LeakDetection = *leaks

	a, err := arena.New(make([]byte, *heapSize), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "segarenademo:", err)
		os.Exit(1)
	}
	defer a.Close()

	var live []unsafe.Pointer
	for _, size := range []uint32{32, 64, 96, 128, 160, 192, 224, 256, 288, 320} {
		p, err := a.Allocate(size, "segarenademo", 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, "allocate failed:", err)
			continue
		}
		live = append(live, p)
	}

	for i, p := range live {
		if i%2 == 0 {
			a.Free(p)
		}
	}

	fmt.Println("=== heap map ===")
	fmt.Print(dump.HeapMap(a))
	fmt.Println("=== ascii ===")
	fmt.Print(dump.ASCII(a))
	fmt.Println("=== stats ===")
	dump.PrintStats(os.Stdout, a)
	fmt.Println("=== leaks ===")
	fmt.Print(dump.LeakReport(a))
}
