// Package mem implements the Sv39 address primitives (physical and
// virtual addresses, page numbers, page-table entries) and the
// physical frame allocator shared by the rest of the kernel.
package mem

import "rv39kernel/physmem"

// Sv39 field widths.
const (
	vaWidthSv39  = 39
	paWidthSv39  = 56
	pageBits     = 12
	ppnWidthSv39 = paWidthSv39 - pageBits // 44
	vpnWidthSv39 = vaWidthSv39 - pageBits // 27
)

// PageSize is the size in bytes of one Sv39 leaf page.
const PageSize = 1 << pageBits

// PhysAddr is a physical address; only the low 56 bits are meaningful.
type PhysAddr uint64

// NewPhysAddr masks v down to the bits a physical address carries.
func NewPhysAddr(v uint64) PhysAddr {
	return PhysAddr(v & ((1 << paWidthSv39) - 1))
}

// PageOffset returns the low 12 bits of pa.
func (pa PhysAddr) PageOffset() uint64 { return uint64(pa) & (PageSize - 1) }

// Floor rounds pa down to the containing page.
func (pa PhysAddr) Floor() PhysPageNum { return PhysPageNum(uint64(pa) / PageSize) }

// Ceil rounds pa up to the next page boundary (a no-op if already aligned).
func (pa PhysAddr) Ceil() PhysPageNum { return PhysPageNum((uint64(pa) + PageSize - 1) / PageSize) }

// Uint64 returns the raw address value.
func (pa PhysAddr) Uint64() uint64 { return uint64(pa) }

// PhysPageNum is a physical page number, PhysAddr>>12; only the low 44
// bits are meaningful.
type PhysPageNum uint64

// NewPhysPageNum masks v down to the bits a PPN carries.
func NewPhysPageNum(v uint64) PhysPageNum {
	return PhysPageNum(v & ((1 << ppnWidthSv39) - 1))
}

// Addr converts a PPN back to the physical address of its first byte.
func (p PhysPageNum) Addr() PhysAddr { return PhysAddr(uint64(p) << pageBits) }

// Uint64 returns the raw page number.
func (p PhysPageNum) Uint64() uint64 { return uint64(p) }

// VirtAddr is a virtual address; only the low 39 bits are meaningful.
// Sv39 addresses are sign-extended from bit 38 when presented to
// hardware or returned to a register.
type VirtAddr uint64

// NewVirtAddr masks v down to the bits a virtual address carries.
func NewVirtAddr(v uint64) VirtAddr {
	return VirtAddr(v & ((1 << vaWidthSv39) - 1))
}

// PageOffset returns the low 12 bits of va.
func (va VirtAddr) PageOffset() uint64 { return uint64(va) & (PageSize - 1) }

// Floor rounds va down to the containing page.
func (va VirtAddr) Floor() VirtPageNum { return VirtPageNum(uint64(va) / PageSize) }

// Ceil rounds va up to the next page boundary. VirtAddr(0) ceils to
// VirtPageNum(0), matching the source's special case rather than
// producing a spurious page at address 0.
func (va VirtAddr) Ceil() VirtPageNum {
	if va == 0 {
		return VirtPageNum(0)
	}
	return VirtPageNum((uint64(va) - 1 + PageSize) / PageSize)
}

// Aligned reports whether va falls on a page boundary.
func (va VirtAddr) Aligned() bool { return va.PageOffset() == 0 }

// Uint64 sign-extends va from bit 38 to a full 64-bit machine word, as
// required when writing a virtual address into a register or CSR.
func (va VirtAddr) Uint64() uint64 {
	v := uint64(va)
	if v >= 1<<(vaWidthSv39-1) {
		return v | ^uint64((1<<vaWidthSv39)-1)
	}
	return v
}

// VirtPageNum is a virtual page number; only the low 27 bits (three
// 9-bit Sv39 level indices) are meaningful.
type VirtPageNum uint64

// Addr converts a VPN back to the virtual address of its first byte.
func (v VirtPageNum) Addr() VirtAddr { return VirtAddr(uint64(v) << pageBits) }

// Uint64 returns the raw page number.
func (v VirtPageNum) Uint64() uint64 { return uint64(v) }

// Indexes splits v into its three Sv39 level indices, level 2 (root)
// first, matching the big-endian-in-level walk order the page table
// uses.
func (v VirtPageNum) Indexes() [3]int {
	var idx [3]int
	vpn := uint64(v)
	for i := 2; i >= 0; i-- {
		idx[i] = int(vpn & 0x1ff)
		vpn >>= 9
	}
	return idx
}

// Step returns the next VPN after v.
func (v VirtPageNum) Step() VirtPageNum { return v + 1 }

// VPNRange is a half-open [Start, End) run of virtual page numbers.
type VPNRange struct {
	Start, End VirtPageNum
}

// NewVPNRange builds a VPNRange covering [start, end).
func NewVPNRange(start, end VirtPageNum) VPNRange {
	return VPNRange{Start: start, End: end}
}

// Len returns the number of pages in the range.
func (r VPNRange) Len() int { return int(r.End) - int(r.Start) }

// Contains reports whether vpn falls within the range.
func (r VPNRange) Contains(vpn VirtPageNum) bool {
	return vpn >= r.Start && vpn < r.End
}

// All yields every VPN in the range in order, for use in a range-over-func
// loop: for vpn := range r.All() { ... }.
func (r VPNRange) All() func(func(VirtPageNum) bool) {
	return func(yield func(VirtPageNum) bool) {
		for vpn := r.Start; vpn != r.End; vpn = vpn.Step() {
			if !yield(vpn) {
				return
			}
		}
	}
}

// physWindow is the simulated RAM backing every PhysPageNum view. It is
// installed once by InitPhysWindow (called from the boot sequence before
// any frame is touched).
var physWindow *physmem.Memory

// InitPhysWindow installs the simulated physical-memory window that
// every PhysPageNum's Bytes/PTEs/As views index into.
func InitPhysWindow(w *physmem.Memory) { physWindow = w }

// Bytes returns the 4 KiB backing the frame named by p as a byte slice.
func (p PhysPageNum) Bytes() []byte {
	return physWindow.Slice(p.Addr().Uint64(), PageSize)
}

// PTEs returns the frame named by p viewed as 512 page-table entries.
func (p PhysPageNum) PTEs() []PTE {
	return bytesAsPTEs(p.Bytes())
}
