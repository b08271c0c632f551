package mem

import (
	"runtime"

	"rv39kernel/upcell"
)

// StackFrameAllocator owns a high-water-mark interval [current, end) of
// never-yet-allocated physical pages plus a LIFO stack of pages freed
// and available for reuse. Alloc pops the recycled stack first,
// otherwise bumps current.
type StackFrameAllocator struct {
	current  PhysPageNum
	end      PhysPageNum
	recycled []PhysPageNum
}

// Init sets the allocatable PPN interval to [l, r). It must be called
// exactly once before any Alloc.
func (a *StackFrameAllocator) Init(l, r PhysPageNum) {
	a.current = l
	a.end = r
	a.recycled = nil
}

// Alloc returns a fresh PPN, or false if the pool is exhausted.
func (a *StackFrameAllocator) Alloc() (PhysPageNum, bool) {
	if n := len(a.recycled); n != 0 {
		ppn := a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
		return ppn, true
	}
	if a.current == a.end {
		return 0, false
	}
	ppn := a.current
	a.current++
	return ppn, true
}

// Dealloc returns ppn to the recycled pool. It panics on a double free
// or on a PPN that was never handed out by Alloc.
func (a *StackFrameAllocator) Dealloc(ppn PhysPageNum) {
	if ppn >= a.current {
		panic("mem: frame was never allocated")
	}
	for _, r := range a.recycled {
		if r == ppn {
			panic("mem: double free of frame")
		}
	}
	a.recycled = append(a.recycled, ppn)
}

// frames is the single global frame allocator, guarded by the
// uniprocessor interior-mutability cell. Callers must not hold a
// borrow across any operation that may itself allocate a frame.
var frames = upcell.New(&StackFrameAllocator{})

// InitFrameAllocator sets the allocatable PPN interval for the global
// allocator. Called once during boot after the kernel image's extent is
// known.
func InitFrameAllocator(l, r PhysPageNum) {
	upcell.Do(frames, func(a **StackFrameAllocator) {
		(*a).Init(l, r)
	})
}

// FrameTracker is a scoped handle owning exactly one physical page. Its
// frame is zeroed on construction and must be returned via Drop exactly
// once; no two live trackers may name the same PPN.
type FrameTracker struct {
	PPN PhysPageNum
}

// FrameAlloc allocates and zeroes a fresh frame, or returns ok=false if
// the pool is exhausted.
func FrameAlloc() (*FrameTracker, bool) {
	var ppn PhysPageNum
	var ok bool
	upcell.Do(frames, func(a **StackFrameAllocator) {
		ppn, ok = (*a).Alloc()
	})
	if !ok {
		return nil, false
	}
	t := &FrameTracker{PPN: ppn}
	clear(ppn.Bytes())
	runtime.SetFinalizer(t, func(t *FrameTracker) { t.release() })
	return t, true
}

// Drop releases the frame back to the allocator. It is safe to call at
// most once; calling it twice double-frees the PPN and panics via
// StackFrameAllocator.Dealloc.
func (t *FrameTracker) Drop() {
	runtime.SetFinalizer(t, nil)
	t.release()
}

func (t *FrameTracker) release() {
	upcell.Do(frames, func(a **StackFrameAllocator) {
		(*a).Dealloc(t.PPN)
	})
}
