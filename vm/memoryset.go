package vm

import (
	"rv39kernel/defs"
	"rv39kernel/loader"
	"rv39kernel/mem"
)

// MemorySet is one address space: a page table plus the map areas that
// own its pages. The kernel has exactly one (built by NewKernel); every
// task has its own (built by FromELF).
type MemorySet struct {
	PageTable *PageTable
	Areas     []*MapArea
}

// NewBare returns an address space with a fresh, empty page table.
func NewBare() *MemorySet {
	return &MemorySet{PageTable: NewPageTable()}
}

// trampolineVA is the fixed, identical-across-every-address-space
// virtual address of the trap entry/return trampoline page.
func trampolineVA() mem.VirtAddr {
	return mem.NewVirtAddr(defs.Trampoline)
}

// trapContextVA is the fixed virtual address, just below the
// trampoline, of a task's trap context page.
func trapContextVA() mem.VirtAddr {
	return mem.NewVirtAddr(defs.TrapContextVA)
}

// MapTrampoline maps the single shared trampoline physical page at its
// fixed virtual address. It must be called on every address space,
// including the kernel's own, since the trampoline runs with the
// faulting address space still active in satp.
func (ms *MemorySet) MapTrampoline(trampolinePPN mem.PhysPageNum) {
	ms.PageTable.Map(trampolineVA().Floor(), trampolinePPN, PermR|PermX)
}

// Push maps area into the address space and, if data is non-nil,
// copies it into the area's freshly mapped pages.
func (ms *MemorySet) Push(area *MapArea, data []byte) {
	area.Map(ms.PageTable)
	if data != nil {
		area.CopyData(ms.PageTable, data)
	}
	ms.Areas = append(ms.Areas, area)
}

// InsertFramedArea adds a new Framed, data-less area spanning
// [startVA, endVA) with the given permissions; used for the user stack
// and for growing the heap via sbrk.
func (ms *MemorySet) InsertFramedArea(startVA, endVA mem.VirtAddr, perm MapPerm) {
	ms.Push(NewMapArea(startVA, endVA, Framed, perm), nil)
}

// KernelLayout names the identity-mapped regions of the kernel image.
// On real hardware these boundaries come from linker-script symbols
// (stext/etext, srodata/erodata, sdata/edata, sbss_with_stack/ebss);
// the portable build takes them as an explicit argument instead, since
// there is no linker step to define them.
type KernelLayout struct {
	TextStart, TextEnd             uint64
	RodataStart, RodataEnd         uint64
	DataStart, DataEnd             uint64
	BSSStart, BSSEnd               uint64
	PhysWindowStart, PhysWindowEnd uint64
	TrampolinePPN                  mem.PhysPageNum
}

// NewKernel builds the kernel's own address space: the trampoline plus
// one identically-mapped, appropriately permissioned area per image
// section, plus the remaining physical memory (so the kernel can touch
// any frame via its identity-mapped window).
func NewKernel(layout KernelLayout) *MemorySet {
	ms := NewBare()
	ms.MapTrampoline(layout.TrampolinePPN)

	push := func(start, end uint64, perm MapPerm) {
		if start == end {
			return
		}
		ms.Push(NewMapArea(mem.NewVirtAddr(start), mem.NewVirtAddr(end), Identical, perm), nil)
	}
	push(layout.TextStart, layout.TextEnd, PermR|PermX)
	push(layout.RodataStart, layout.RodataEnd, PermR)
	push(layout.DataStart, layout.DataEnd, PermR|PermW)
	push(layout.BSSStart, layout.BSSEnd, PermR|PermW)
	push(layout.PhysWindowStart, layout.PhysWindowEnd, PermR|PermW)
	return ms
}

// FromELF builds a fresh user address space from an application image:
// the trampoline, the TRAP_CONTEXT page, one Framed area per loadable
// ELF segment, a guard-paged user stack immediately above the highest
// segment, and a zero-length heap area above that ready for sbrk. It
// returns the space, the initial user stack pointer, the entry point,
// and the physical page number backing the trap context.
func FromELF(trampolinePPN mem.PhysPageNum, elfBytes []byte) (ms *MemorySet, userSP, entry uint64, trapCxPPN mem.PhysPageNum, err error) {
	e, segs, err := loader.ParseELF(elfBytes)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	ms = NewBare()
	ms.MapTrampoline(trampolinePPN)

	var maxEndVPN mem.VirtPageNum
	for _, seg := range segs {
		start := mem.NewVirtAddr(seg.VA)
		end := mem.NewVirtAddr(seg.VA + seg.MemSize)
		var perm MapPerm = PermU
		if seg.R {
			perm |= PermR
		}
		if seg.W {
			perm |= PermW
		}
		if seg.X {
			perm |= PermX
		}
		area := NewMapArea(start, end, Framed, perm)
		ms.Push(area, seg.Data)
		if area.Range.End > maxEndVPN {
			maxEndVPN = area.Range.End
		}
	}

	userStackBottomVA := maxEndVPN.Addr().Uint64() + mem.PageSize // guard page
	userStackTopVA := userStackBottomVA + defs.UserStackSize
	ms.InsertFramedArea(mem.NewVirtAddr(userStackBottomVA), mem.NewVirtAddr(userStackTopVA), PermR|PermW|PermU)

	// Heap area starts empty; ChangeProgramBrk grows it via AppendTo.
	ms.Push(NewMapArea(mem.NewVirtAddr(userStackTopVA), mem.NewVirtAddr(userStackTopVA), Framed, PermR|PermW|PermU), nil)

	trapCxStart := trapContextVA()
	trapCxArea := NewMapArea(trapCxStart, mem.NewVirtAddr(defs.Trampoline), Framed, PermR|PermW)
	ms.Push(trapCxArea, nil)
	trapCxPPN = trapCxArea.DataFrames[trapCxStart.Floor()].PPN

	return ms, userStackTopVA, e, trapCxPPN, nil
}

// Activate installs this address space's page table into satp. On
// riscv64 this also issues sfence.vma; on the portable build it does
// nothing, since there is no satp CSR or hardware TLB.
func (ms *MemorySet) Activate() {
	activateSatp(ms.PageTable.Token())
}

// Token returns this address space's satp value.
func (ms *MemorySet) Token() uint64 { return ms.PageTable.Token() }

// Translate looks up vpn's leaf PTE without modifying the table.
func (ms *MemorySet) Translate(vpn mem.VirtPageNum) (mem.PTE, bool) {
	return ms.PageTable.Translate(vpn)
}

// areaContaining returns the area covering vpn, or nil.
func (ms *MemorySet) areaContaining(vpn mem.VirtPageNum) *MapArea {
	for _, area := range ms.Areas {
		if area.Range.Contains(vpn) {
			return area
		}
	}
	return nil
}

// ShrinkTo shrinks the area starting at start down to newEnd.
func (ms *MemorySet) ShrinkTo(start mem.VirtPageNum, newEnd mem.VirtPageNum) bool {
	area := ms.areaStartingAt(start)
	if area == nil {
		return false
	}
	area.ShrinkTo(ms.PageTable, newEnd)
	return true
}

// AppendTo grows the area starting at start out to newEnd.
func (ms *MemorySet) AppendTo(start mem.VirtPageNum, newEnd mem.VirtPageNum) bool {
	area := ms.areaStartingAt(start)
	if area == nil {
		return false
	}
	area.AppendTo(ms.PageTable, newEnd)
	return true
}

func (ms *MemorySet) areaStartingAt(start mem.VirtPageNum) *MapArea {
	for _, area := range ms.Areas {
		if area.Range.Start == start {
			return area
		}
	}
	return nil
}
