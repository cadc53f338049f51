package arena

import "unsafe"

// AllocRecord describes one live allocation, for leak reporting.
type AllocRecord struct {
	UserPtr    unsafe.Pointer
	UserSize   uint32
	AllocID    uint64
	SourceFile string
	SourceLine int
}

// trackingNode is a singly linked list node. Tracking records live outside
// the managed arena (so leak bookkeeping doesn't consume allocator capacity
// or risk self-referential corruption) as small, engine-owned heap nodes.
type trackingNode struct {
	rec  AllocRecord
	next *trackingNode
}

type trackingList struct {
	head *trackingNode
}

func newTrackingList() *trackingList {
	return &trackingList{}
}

func (l *trackingList) append(rec AllocRecord) {
	l.head = &trackingNode{rec: rec, next: l.head}
}

// remove deletes the node whose UserPtr matches ptr, if any, and reports
// whether one was found.
func (l *trackingList) remove(ptr unsafe.Pointer) bool {
	var prev *trackingNode
	for n := l.head; n != nil; n = n.next {
		if n.rec.UserPtr == ptr {
			if prev == nil {
				l.head = n.next
			} else {
				prev.next = n.next
			}
			return true
		}
		prev = n
	}
	return false
}

// updateSize rewrites the UserSize field of the record matching ptr, used
// by Resize's shrink-in-place path where the user pointer is unchanged.
func (l *trackingList) updateSize(ptr unsafe.Pointer, newSize uint32) {
	for n := l.head; n != nil; n = n.next {
		if n.rec.UserPtr == ptr {
			n.rec.UserSize = newSize
			return
		}
	}
}

func (l *trackingList) clear() {
	l.head = nil
}

func (l *trackingList) len() int {
	n := 0
	for cur := l.head; cur != nil; cur = cur.next {
		n++
	}
	return n
}

// LiveAllocations yields every currently tracked allocation record, in
// most-recently-allocated-first order. It is a no-op (yields nothing) when
// Config.LeakDetection is disabled.
func (a *Arena) LiveAllocations(yield func(AllocRecord) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for n := a.tracking.head; n != nil; n = n.next {
		if !yield(n.rec) {
			return
		}
	}
}
