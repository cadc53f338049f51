package arena

// find selects a Free block whose payload_size >= size: best-fit (smallest
// nonnegative slack) within the home class, falling back to the head of the
// first nonempty higher class. Returns ok=false if no block satisfies the
// request anywhere.
func (a *Arena) find(size uint32) (blockRef, bool) {
	class := a.classOf(size)

	if off, ok := a.bestFitInClass(class, size); ok {
		return off, true
	}

	for c := class + 1; c < numSizeClasses; c++ {
		list := &a.freeLists[c]
		if list.head != blockRefNone {
			return list.head, true
		}
	}

	return 0, false
}

// bestFitInClass scans every block in the given class's free list and
// returns the one with the smallest nonnegative (payload_size - size)
// slack, short-circuiting on an exact (zero-slack) match.
func (a *Arena) bestFitInClass(class int, size uint32) (blockRef, bool) {
	list := &a.freeLists[class]

	var best blockRef
	found := false
	var bestSlack uint32

	for cur := list.head; cur != blockRefNone; cur = a.headerAt(cur).listNext {
		h := a.headerAt(cur)
		if h.payloadSize < size {
			continue
		}
		slack := h.payloadSize - size
		if slack == 0 {
			return cur, true
		}
		if !found || slack < bestSlack {
			best, bestSlack, found = cur, slack, true
		}
	}

	return best, found
}

// split trims block off down to size when the remainder would be large
// enough to stand on its own as a block (payload_size >= size +
// MIN_BLOCK_SIZE, plus room for the remainder's own header/footer and,
// when guards are enabled, an extra 2*Alignment so the remainder can still
// host a guarded allocation later). The new free block is inserted into
// the free-list registry; off's header/footer are rewritten to reflect its
// new, smaller size.
func (a *Arena) split(off blockRef, size uint32) {
	h := a.headerAt(off)

	overhead := a.headerSize + a.footerSize
	required := size + overhead + a.minBlockSize
	if a.cfg.MemoryGuards {
		required += 2 * a.cfg.Alignment
	}
	if h.payloadSize < required {
		return
	}

	remainder := h.payloadSize - size - overhead

	newOff := off + blockRef(a.headerSize) + blockRef(size) + blockRef(a.footerSize)

	h.payloadSize = size
	a.writeFooter(off, size, h.free)

	nh := a.headerAt(newOff)
	*nh = blockHeader{
		startSentinel: SentinelValue,
		endSentinel:   SentinelValue,
		payloadSize:   remainder,
		free:          true,
		listPrev:      blockRefNone,
		listNext:      blockRefNone,
	}
	a.writeFooter(newOff, remainder, true)

	a.insertFree(a.classOf(remainder), newOff)
}
