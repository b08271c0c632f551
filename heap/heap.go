// Package heap bootstraps the kernel's dynamic-allocation backing
// store: a fixed-size buffer carved out of .bss at boot, handed to a
// simple first-fit allocator. The kernel's own bookkeeping (task
// vectors, map-area lists) is ordinary Go data living on the Go heap;
// Arena exists to give kernel-heap exhaustion a concrete, testable
// failure mode rather than to replace Go's allocator.
package heap

import "fmt"

type block struct {
	off, size int
}

// Arena is a bounded first-fit byte allocator over a single fixed
// buffer, initialized once at boot.
type Arena struct {
	buf  []byte
	free []block
}

// NewArena carves out a size-byte buffer and marks it entirely free.
func NewArena(size int) *Arena {
	return &Arena{
		buf:  make([]byte, size),
		free: []block{{off: 0, size: size}},
	}
}

// OOMHandler is invoked when Alloc cannot satisfy a request. The default
// panics with the failing layout; tests may replace it to observe
// failures without aborting.
var OOMHandler = func(size, align int) {
	panic(fmt.Sprintf("heap: out of memory allocating %d bytes (align %d)", size, align))
}

// Alloc reserves size bytes aligned to align (a power of two) and
// returns the byte slice backing them, or calls OOMHandler and returns
// nil if no free block is large enough.
func (a *Arena) Alloc(size, align int) []byte {
	for i, b := range a.free {
		start := roundUp(b.off, align)
		end := start + size
		if end > b.off+b.size {
			continue
		}
		a.consume(i, start, end)
		return a.buf[start:end]
	}
	OOMHandler(size, align)
	return nil
}

// consume removes [start, end) from free block i, re-fragmenting the
// surrounding free space.
func (a *Arena) consume(i, start, end int) {
	b := a.free[i]
	var repl []block
	if start > b.off {
		repl = append(repl, block{off: b.off, size: start - b.off})
	}
	if end < b.off+b.size {
		repl = append(repl, block{off: end, size: b.off + b.size - end})
	}
	a.free = append(a.free[:i], append(repl, a.free[i+1:]...)...)
}

// Free returns [off, off+size) to the free list. Adjacent free blocks
// are coalesced so repeated alloc/free pairs do not fragment the arena.
func (a *Arena) Free(off, size int) {
	a.free = append(a.free, block{off: off, size: size})
	a.coalesce()
}

func (a *Arena) coalesce() {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(a.free); i++ {
			for j := i + 1; j < len(a.free); j++ {
				bi, bj := a.free[i], a.free[j]
				if bi.off+bi.size == bj.off {
					a.free[i].size += bj.size
					a.free = append(a.free[:j], a.free[j+1:]...)
					merged = true
					break
				}
				if bj.off+bj.size == bi.off {
					a.free[j].size += bi.size
					a.free[i] = a.free[j]
					a.free = append(a.free[:j], a.free[j+1:]...)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
	}
}

func roundUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}
