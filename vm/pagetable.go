// Package vm implements the Sv39 page table and per-address-space
// memory set: walking and mutating three-level page tables, and the
// map-area/memory-set bookkeeping built on top of them.
package vm

import "rv39kernel/mem"

// PageTable is a three-level Sv39 page table. frames owns every frame
// backing the table itself (the root plus every intermediate level
// frame allocated during a walk); leaf (data) frames belong to the
// MapArea that mapped them, not to the table.
type PageTable struct {
	Root   mem.PhysPageNum
	frames []*mem.FrameTracker
}

// NewPageTable allocates a fresh root frame and returns an empty table.
func NewPageTable() *PageTable {
	root, ok := mem.FrameAlloc()
	if !ok {
		panic("vm: out of physical memory allocating page table root")
	}
	return &PageTable{Root: root.PPN, frames: []*mem.FrameTracker{root}}
}

// FromToken builds a read-only handle onto another address space's page
// table, for translating across spaces (e.g. the sole read path
// syscalls use to access user memory). The returned table owns no
// frames: dropping it must never free anything.
func FromToken(satp uint64) *PageTable {
	return &PageTable{Root: mem.NewPhysPageNum(satp)}
}

// Token returns the satp-ready value for this table: the Sv39 mode
// nibble (8) in bits [63:60] and the root PPN in the low 44 bits.
func (pt *PageTable) Token() uint64 {
	return 8<<60 | uint64(pt.Root)&((1<<44)-1)
}

// walk locates the leaf PTE for vpn, walking level 2 down to level 0. If
// alloc is true, missing intermediate tables are allocated as they are
// encountered (as plain, permission-less [V] entries); if false, the
// walk stops and returns ok=false at the first invalid intermediate
// level. The returned pointer aliases the live page-table frame.
func (pt *PageTable) walk(vpn mem.VirtPageNum, alloc bool) (pte *mem.PTE, ok bool) {
	idx := vpn.Indexes()
	ppn := pt.Root
	for level := 0; level < 3; level++ {
		ptes := ppn.PTEs()
		pte = &ptes[idx[level]]
		if level == 2 {
			break
		}
		if !pte.Valid() {
			if !alloc {
				return nil, false
			}
			frame, allocated := mem.FrameAlloc()
			if !allocated {
				return nil, false
			}
			pt.frames = append(pt.frames, frame)
			*pte = mem.NewPTE(frame.PPN, mem.PTEV)
		}
		ppn = pte.PPN()
	}
	return pte, true
}

// Map installs a leaf PTE for vpn pointing at ppn with flags, setting V.
// vpn must not already be mapped; overwriting an existing leaf is a
// caller error and panics.
func (pt *PageTable) Map(vpn mem.VirtPageNum, ppn mem.PhysPageNum, flags mem.PTEFlags) {
	pte, ok := pt.walk(vpn, true)
	if !ok {
		panic("vm: out of physical memory walking page table")
	}
	if pte.Valid() {
		panic("vm: vpn already mapped")
	}
	*pte = mem.NewPTE(ppn, flags|mem.PTEV)
}

// Unmap clears the leaf PTE for vpn. Intermediate frames are left
// allocated; they are only released when the whole table is dropped.
func (pt *PageTable) Unmap(vpn mem.VirtPageNum) {
	pte, ok := pt.walk(vpn, false)
	if !ok || !pte.Valid() {
		panic("vm: unmap of unmapped vpn")
	}
	*pte = 0
}

// Translate walks vpn without allocating and returns its leaf PTE, or
// ok=false if any level along the way is invalid.
func (pt *PageTable) Translate(vpn mem.VirtPageNum) (pte mem.PTE, ok bool) {
	p, ok := pt.walk(vpn, false)
	if !ok || !p.Valid() {
		return 0, false
	}
	return *p, true
}

// Drop releases every frame this table owns (root plus intermediate
// levels). A table built by FromToken owns no frames and Drop is a
// no-op on it.
func (pt *PageTable) Drop() {
	for _, f := range pt.frames {
		f.Drop()
	}
	pt.frames = nil
}

// TranslatedByteBuffer copies a contiguous user-virtual range out of the
// address space named by token as a sequence of physical-memory slices,
// one per page the range crosses. It is the sole read path syscalls use
// to access user memory.
func TranslatedByteBuffer(token uint64, ptr uint64, length int) [][]byte {
	pt := FromToken(token)
	start := ptr
	end := ptr + uint64(length)
	var out [][]byte
	for start < end {
		startVA := mem.NewVirtAddr(start)
		vpn := startVA.Floor()
		pte, ok := pt.Translate(vpn)
		if !ok {
			panic("vm: translated_byte_buffer hit an unmapped page")
		}
		ppn := pte.PPN()
		pageEnd := (vpn + 1).Addr().Uint64()
		sliceEnd := pageEnd
		if end < pageEnd {
			sliceEnd = end
		}
		bytes := ppn.Bytes()
		out = append(out, bytes[startVA.PageOffset():sliceEnd-vpn.Addr().Uint64()])
		start = sliceEnd
	}
	return out
}
