package arena

import "unsafe"

// BlockInfo is a read-only snapshot of one block, for external dumpers and
// validators: a traversal over blocks reporting position, size, state, and
// allocation id.
type BlockInfo struct {
	Offset      uint32
	PayloadSize uint32
	Free        bool
	AllocID     uint64
}

// Blocks walks the arena from its base to its end by header+payload+footer,
// yielding one BlockInfo per block encountered. Every block tiles exactly:
// each one starts where the previous one's footer ended.
func (a *Arena) Blocks(yield func(BlockInfo) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	off := blockRef(0)
	for uint32(off)+a.headerSize <= uint32(len(a.buf)) {
		h := a.headerAt(off)
		info := BlockInfo{
			Offset:      uint32(off),
			PayloadSize: h.payloadSize,
			Free:        h.free,
			AllocID:     h.allocID,
		}
		if !yield(info) {
			return
		}
		next, ok := a.nextPhysical(off)
		if !ok {
			return
		}
		off = next
	}
}

// validateBlock bounds-checks off and verifies its header (and footer, when
// present) sentinels, reporting any Violation through Diagnostics. Returns
// false if the block failed validation.
func (a *Arena) validateBlock(off blockRef, where string) bool {
	if uint32(off)+a.headerSize > uint32(len(a.buf)) {
		a.cfg.Diagnostics.Report(Violation{
			Kind:    ViolationOutOfBounds,
			Where:   where,
			Ptr:     unsafe.Add(a.base, uintptr(off)),
			Message: outOfBoundsMessage(where, unsafe.Add(a.base, uintptr(off))),
		})
		return false
	}

	h := a.headerAt(off)
	ptr := unsafe.Add(a.base, uintptr(off))

	ok := true
	if h.startSentinel != SentinelValue {
		a.cfg.Diagnostics.Report(Violation{
			Kind: ViolationCorruption, Where: where, Ptr: ptr, AllocID: h.allocID,
			Message: corruptionMessage(where, ptr, "start"),
		})
		ok = false
	}
	if h.endSentinel != SentinelValue {
		a.cfg.Diagnostics.Report(Violation{
			Kind: ViolationCorruption, Where: where, Ptr: ptr, AllocID: h.allocID,
			Message: corruptionMessage(where, ptr, "end"),
		})
		ok = false
	}
	if h.payloadSize > uint32(len(a.buf)) {
		ok = false
	}

	if a.footerSize > 0 {
		f := a.footerAt(off + blockRef(a.headerSize) + blockRef(h.payloadSize))
		if f.footerSentinel != FooterSentinel {
			a.cfg.Diagnostics.Report(Violation{
				Kind: ViolationCorruption, Where: where, Ptr: ptr, AllocID: h.allocID,
				Message: corruptionMessage(where, ptr, "footer"),
			})
			ok = false
		}
		if f.payloadSize != h.payloadSize || f.free != h.free {
			ok = false
		}
	}

	return ok
}

// Validate walks the entire arena and reports every Violation found,
// without mutating any state. It is safe to call at any time.
func (a *Arena) Validate() []Violation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.walkAndCollect("validate")
}

// WalkArena is Validate plus a cross-check between each block's free/used
// flag and the registry it is actually linked into. Gated by
// Config.DebugLevel because it is O(n) in the number of free/used blocks
// on top of the O(n) arena walk; returns nil when DebugLevel is zero.
func (a *Arena) WalkArena() []Violation {
	if a.cfg.DebugLevel <= 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	violations := a.walkAndCollect("walk")

	inFreeList := make(map[blockRef]bool)
	for c := range a.freeLists {
		for cur := a.freeLists[c].head; cur != blockRefNone; cur = a.headerAt(cur).listNext {
			inFreeList[cur] = true
		}
	}
	inUsedList := make(map[blockRef]bool)
	for cur := a.usedList.head; cur != blockRefNone; cur = a.headerAt(cur).listNext {
		inUsedList[cur] = true
	}

	off := blockRef(0)
	for uint32(off)+a.headerSize <= uint32(len(a.buf)) {
		h := a.headerAt(off)
		ptr := unsafe.Add(a.base, uintptr(off))
		switch {
		case h.free && !inFreeList[off]:
			violations = append(violations, Violation{
				Kind: ViolationListMismatch, Where: "walk", Ptr: ptr, AllocID: h.allocID,
				Message: listMismatchMessage(false),
			})
		case !h.free && !inUsedList[off]:
			violations = append(violations, Violation{
				Kind: ViolationListMismatch, Where: "walk", Ptr: ptr, AllocID: h.allocID,
				Message: listMismatchMessage(true),
			})
		}
		next, ok := a.nextPhysical(off)
		if !ok {
			break
		}
		off = next
	}

	return violations
}

func (a *Arena) walkAndCollect(where string) []Violation {
	var violations []Violation
	off := blockRef(0)
	for uint32(off)+a.headerSize <= uint32(len(a.buf)) {
		h := a.headerAt(off)
		ptr := unsafe.Add(a.base, uintptr(off))

		if h.startSentinel != SentinelValue || h.endSentinel != SentinelValue {
			field := "start"
			if h.startSentinel == SentinelValue {
				field = "end"
			}
			violations = append(violations, Violation{
				Kind: ViolationCorruption, Where: where, Ptr: ptr, AllocID: h.allocID,
				Message: corruptionMessage(where, ptr, field),
			})
		}
		if a.footerSize > 0 {
			f := a.footerAt(off + blockRef(a.headerSize) + blockRef(h.payloadSize))
			if f.footerSentinel != FooterSentinel {
				violations = append(violations, Violation{
					Kind: ViolationCorruption, Where: where, Ptr: ptr, AllocID: h.allocID,
					Message: corruptionMessage(where, ptr, "footer"),
				})
			}
		}

		next, ok := a.nextPhysical(off)
		if !ok {
			break
		}
		off = next
	}
	return violations
}
