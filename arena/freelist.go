package arena

// freeList is a doubly linked list of blocks, realized purely through the
// listPrev/listNext fields embedded in each block's header — the list
// struct itself holds only the head and tail offsets. The same shape backs
// both the eight segregated free lists and the single used list; list links
// are non-owning positional metadata, not a memory claim on the block.
type freeList struct {
	head, tail blockRef
	len        int
}

func newFreeList() freeList {
	return freeList{head: blockRefNone, tail: blockRefNone}
}

// pushFront links off in at the head of list in O(1).
func (a *Arena) pushFront(list *freeList, off blockRef) {
	h := a.headerAt(off)
	h.listPrev = blockRefNone
	h.listNext = list.head

	if list.head != blockRefNone {
		a.headerAt(list.head).listPrev = off
	} else {
		list.tail = off
	}
	list.head = off
	list.len++
}

// pushOrdered links off into list in ascending-address order, used only for
// CacheLocality classes. Falls back to pushFront's O(1) behavior on an
// empty list.
func (a *Arena) pushOrdered(list *freeList, off blockRef) {
	if list.head == blockRefNone {
		a.pushFront(list, off)
		return
	}

	cur := list.head
	for cur != blockRefNone && cur < off {
		cur = a.headerAt(cur).listNext
	}

	h := a.headerAt(off)
	if cur == blockRefNone {
		// off is the new tail.
		tail := list.tail
		h.listPrev = tail
		h.listNext = blockRefNone
		a.headerAt(tail).listNext = off
		list.tail = off
		list.len++
		return
	}

	prev := a.headerAt(cur).listPrev
	h.listPrev = prev
	h.listNext = cur
	a.headerAt(cur).listPrev = off
	if prev != blockRefNone {
		a.headerAt(prev).listNext = off
	} else {
		list.head = off
	}
	list.len++
}

// unlink removes off from list in O(1); off's own listPrev/listNext are
// left stale (callers overwrite them before any subsequent insert).
func (a *Arena) unlink(list *freeList, off blockRef) {
	h := a.headerAt(off)
	if h.listPrev != blockRefNone {
		a.headerAt(h.listPrev).listNext = h.listNext
	} else {
		list.head = h.listNext
	}
	if h.listNext != blockRefNone {
		a.headerAt(h.listNext).listPrev = h.listPrev
	} else {
		list.tail = h.listPrev
	}
	list.len--
}

// insertFree adds a free block to the free list for class, honoring
// CacheLocality's address-ordering for classes 0..3.
func (a *Arena) insertFree(class int, off blockRef) {
	list := &a.freeLists[class]
	if a.cfg.CacheLocality && class < 4 {
		a.pushOrdered(list, off)
	} else {
		a.pushFront(list, off)
	}
}

// unlinkFree removes a free block from the free list for class.
func (a *Arena) unlinkFree(class int, off blockRef) {
	a.unlink(&a.freeLists[class], off)
}

// insertUsed moves a block onto the used list.
func (a *Arena) insertUsed(off blockRef) {
	a.pushFront(&a.usedList, off)
}

// unlinkUsed removes a block from the used list.
func (a *Arena) unlinkUsed(off blockRef) {
	a.unlink(&a.usedList, off)
}
