package mem

import (
	"testing"

	"rv39kernel/physmem"
)

func TestStackFrameAllocatorBumpThenRecycle(t *testing.T) {
	var a StackFrameAllocator
	a.Init(PhysPageNum(10), PhysPageNum(13))

	got, ok := a.Alloc()
	if !ok || got != 10 {
		t.Fatalf("first Alloc() = (%d, %v), want (10, true)", got, ok)
	}
	got, ok = a.Alloc()
	if !ok || got != 11 {
		t.Fatalf("second Alloc() = (%d, %v), want (11, true)", got, ok)
	}

	a.Dealloc(10)
	got, ok = a.Alloc()
	if !ok || got != 10 {
		t.Fatalf("Alloc() after Dealloc(10) = (%d, %v), want (10, true) (recycled before bumped)", got, ok)
	}

	got, ok = a.Alloc()
	if !ok || got != 12 {
		t.Fatalf("Alloc() after exhausting recycled = (%d, %v), want (12, true)", got, ok)
	}

	if _, ok := a.Alloc(); ok {
		t.Fatal("Alloc() on an exhausted pool should return ok=false")
	}
}

func TestStackFrameAllocatorInitSetsBothBounds(t *testing.T) {
	// Regression guard: a prior version of Init assigned both bounds to
	// `current`, leaving `end` at its zero value and making the
	// allocator permanently exhausted.
	var a StackFrameAllocator
	a.Init(PhysPageNum(100), PhysPageNum(200))
	if a.end != 200 {
		t.Fatalf("end = %d, want 200", a.end)
	}
	if _, ok := a.Alloc(); !ok {
		t.Fatal("Alloc() should succeed right after Init with a non-empty range")
	}
}

func TestStackFrameAllocatorDoubleFreePanics(t *testing.T) {
	var a StackFrameAllocator
	a.Init(PhysPageNum(0), PhysPageNum(4))
	ppn, _ := a.Alloc()
	a.Dealloc(ppn)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on double free")
		}
	}()
	a.Dealloc(ppn)
}

func TestStackFrameAllocatorDeallocUnallocatedPanics(t *testing.T) {
	var a StackFrameAllocator
	a.Init(PhysPageNum(0), PhysPageNum(4))

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on deallocating a never-allocated frame")
		}
	}()
	a.Dealloc(PhysPageNum(2))
}

func TestFrameAllocZeroesAndTracks(t *testing.T) {
	phys := physmem.New(0, 16)
	InitPhysWindow(phys)
	InitFrameAllocator(PhysPageNum(0), PhysPageNum(16))

	f, ok := FrameAlloc()
	if !ok {
		t.Fatal("FrameAlloc() failed on a fresh pool")
	}
	for i, b := range f.PPN.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 (frame must be zeroed)", i, b)
		}
	}
	f.Drop()

	f2, ok := FrameAlloc()
	if !ok || f2.PPN != f.PPN {
		t.Fatalf("FrameAlloc() after Drop should recycle PPN %d, got %d (ok=%v)", f.PPN, f2.PPN, ok)
	}
}
