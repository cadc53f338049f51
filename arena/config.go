package arena

import "github.com/pkg/errors"

// Sentinel and guard constants, per the allocator's on-disk (on-arena)
// block layout.
const (
	SentinelValue  uint32 = 0xCAFEBABE // start_sentinel / end_sentinel
	FooterSentinel uint32 = 0xDEADBEEF // footer_sentinel
	GuardValue     byte   = 0xFE       // red-zone fill byte

	// DefaultAlignment is the alignment of every user pointer and every
	// stored payload_size.
	DefaultAlignment = 16

	numSizeClasses = 8
)

// defaultClassBounds are the upper bounds of size classes 0..6; class 7 is
// the catch-all and has no finite bound.
var defaultClassBounds = [numSizeClasses - 1]uint32{32, 64, 128, 256, 512, 1024, 2048}

// Config configures an Arena's feature set. The zero Config is accepted: New
// fills in Alignment, ClassBounds and Diagnostics with their defaults and
// leaves every feature toggle off. DefaultConfig returns one with the
// features enabled.
type Config struct {
	// HeapSize is informational only: the Arena's true capacity is
	// len(buf) as passed to New. HeapSize lets callers record the
	// capacity they intended to reserve.
	HeapSize uint32

	// Alignment is the byte alignment of user pointers and stored
	// payload sizes. Must be a power of two. Zero means DefaultAlignment.
	Alignment uint32

	// ClassBounds overrides the upper bounds of size classes 0..6 and must
	// have exactly seven entries (the 8th class is always the catch-all and
	// has no bound). Nil means defaultClassBounds.
	ClassBounds []uint32

	// ThreadSafe, when false, makes the internal mutex a no-op. Callers
	// that disable this are responsible for external synchronization.
	ThreadSafe bool

	// DebugLevel gates WalkArena and the wrapping of Allocate's
	// out-of-memory error with call-site context. Zero disables both.
	DebugLevel int

	// EnableStats turns on statistics aggregation (and, transitively,
	// the arenaprom collector's ability to read anything meaningful).
	EnableStats bool

	// MemoryGuards turns on red-zone guard bytes around every live
	// allocation.
	MemoryGuards bool

	// BoundaryTags turns on block footers, which enable backward
	// coalescing. Disabling this removes backward coalescing entirely.
	BoundaryTags bool

	// CacheLocality, when true, keeps free lists for classes 0..3
	// address-ordered (ascending) instead of head-inserting, trading
	// insert cost for better locality on forward scans.
	CacheLocality bool

	// LeakDetection turns on the tracking-record list consulted by
	// LiveAllocations.
	LeakDetection bool

	// Diagnostics receives reports of double-frees, buffer overruns,
	// and corruption. Nil means NewZapDiagnostics(zap.NewNop()).
	Diagnostics Diagnostics
}

// DefaultConfig returns a Config with every feature enabled: guards,
// boundary tags, statistics, cache locality, and leak detection all on.
func DefaultConfig(heapSize uint32) Config {
	return Config{
		HeapSize:      heapSize,
		Alignment:     DefaultAlignment,
		ThreadSafe:    true,
		EnableStats:   true,
		MemoryGuards:  true,
		BoundaryTags:  true,
		CacheLocality: true,
		LeakDetection: true,
	}
}

func (c Config) normalize() (Config, error) {
	if c.Alignment == 0 {
		c.Alignment = DefaultAlignment
	}
	if c.Alignment&(c.Alignment-1) != 0 {
		return c, errors.Errorf("arena: alignment %d is not a power of two", c.Alignment)
	}
	if c.ClassBounds == nil {
		bounds := defaultClassBounds
		c.ClassBounds = bounds[:]
	} else if len(c.ClassBounds) != numSizeClasses-1 {
		return c, errors.Errorf("arena: ClassBounds must have %d entries, got %d", numSizeClasses-1, len(c.ClassBounds))
	}
	if c.Diagnostics == nil {
		c.Diagnostics = NewZapDiagnostics(nopLogger())
	}
	return c, nil
}

func alignUp(n, alignment uint32) uint32 {
	return (n + alignment - 1) &^ (alignment - 1)
}
