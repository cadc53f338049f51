package arena

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// ViolationKind identifies the class of integrity problem a Violation
// describes — the kinds that are reported through Diagnostics rather than
// returned as Go errors.
type ViolationKind int

const (
	// ViolationDoubleFree: free() called on a block already free.
	ViolationDoubleFree ViolationKind = iota
	// ViolationBufferOverrun: a guard red zone no longer reads GuardValue.
	ViolationBufferOverrun
	// ViolationCorruption: a sentinel mismatch was detected.
	ViolationCorruption
	// ViolationOutOfBounds: a block pointer falls outside the arena.
	ViolationOutOfBounds
	// ViolationListMismatch: a block's free/used state disagrees with the
	// registry it was found in (used only by WalkArena).
	ViolationListMismatch
)

// Violation is one integrity incident surfaced by Validate, WalkArena, or
// the lifecycle operations that detect corruption inline.
type Violation struct {
	Kind    ViolationKind
	Where   string         // the operation that detected it, e.g. "free"
	Ptr     unsafe.Pointer // user or internal pointer, whichever is known
	AllocID uint64
	Message string // the literal diagnostic text for this incident
}

// Diagnostics receives Violations as they are detected. The engine never
// terminates the process over a Violation; Diagnostics exists purely so
// callers can route these incidents to logs, metrics, or test assertions.
type Diagnostics interface {
	Report(Violation)
}

// zapDiagnostics is the default Diagnostics implementation, logging each
// Violation at Warn level with its literal message plus structured fields
// for log aggregation.
type zapDiagnostics struct {
	log *zap.Logger
}

// NewZapDiagnostics wraps a *zap.Logger as a Diagnostics sink.
func NewZapDiagnostics(log *zap.Logger) Diagnostics {
	if log == nil {
		log = nopLogger()
	}
	return &zapDiagnostics{log: log.Named("arena")}
}

func (z *zapDiagnostics) Report(v Violation) {
	z.log.Warn(v.Message,
		zap.String("where", v.Where),
		zap.Uintptr("ptr", uintptr(v.Ptr)),
		zap.Uint64("alloc_id", v.AllocID),
		zap.Int("kind", int(v.Kind)),
	)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func doubleFreeMessage(ptr unsafe.Pointer, allocID uint64) string {
	return fmt.Sprintf("Double free detected at %p (ID %d)", ptr, allocID)
}

func bufferOverrunMessage(ptr unsafe.Pointer, allocID uint64) string {
	return fmt.Sprintf("Buffer overrun detected at %p (ID %d)", ptr, allocID)
}

func corruptionMessage(where string, ptr unsafe.Pointer, field string) string {
	return fmt.Sprintf("MEMORY CORRUPTION at %s: Block %p %s sentinel corrupted", where, ptr, field)
}

func outOfBoundsMessage(where string, ptr unsafe.Pointer) string {
	return fmt.Sprintf("MEMORY ERROR at %s: Block %p is outside heap bounds", where, ptr)
}

func listMismatchMessage(markedUsed bool) string {
	if markedUsed {
		return "HEAP ERROR: Block in free list is marked as used"
	}
	return "HEAP ERROR: Block in used list is marked as free"
}
