package arena

import "github.com/pkg/errors"

// Sentinel errors for the lifecycle API's error-return paths. DoubleFree,
// Corruption, and BufferOverrun are deliberately not part of this set:
// those are reported through Diagnostics and never surfaced as a Go error
// from Free, which always succeeds from the caller's point of view.
var (
	// ErrOutOfMemory is returned when find() cannot locate a suitable
	// free block anywhere in the registry.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrInvalidArgument is returned for a zero-size request or an
	// n*elemSize overflow in CountInit.
	ErrInvalidArgument = errors.New("arena: invalid argument")

	// ErrInvalidPointer is returned when Resize is called with a pointer
	// whose header fails sentinel or bounds validation.
	ErrInvalidPointer = errors.New("arena: invalid pointer")

	errArenaTooSmall = errors.New("arena: backing buffer too small for a single block")
)

// wrapf attaches debug-level call-stack context to cause when
// Config.DebugLevel is enabled; it is a plain pass-through otherwise so
// production paths don't pay for stack capture.
func (a *Arena) wrapf(cause error, format string, args ...any) error {
	if a.cfg.DebugLevel <= 0 {
		return cause
	}
	return errors.Wrapf(cause, format, args...)
}
