package mem

import "unsafe"

// PTEFlags is the low 8 bits of a page-table entry.
type PTEFlags uint8

const (
	PTEV PTEFlags = 1 << 0 // Valid
	PTER PTEFlags = 1 << 1 // Readable
	PTEW PTEFlags = 1 << 2 // Writable
	PTEX PTEFlags = 1 << 3 // Executable
	PTEU PTEFlags = 1 << 4 // Accessible in U-mode
	PTEG PTEFlags = 1 << 5 // Global
	PTEA PTEFlags = 1 << 6 // Accessed
	PTED PTEFlags = 1 << 7 // Dirty
)

// Has reports whether every bit set in want is also set in f.
func (f PTEFlags) Has(want PTEFlags) bool { return f&want == want }

// PTE is one Sv39 page-table entry: bits [53:10] hold the PPN, bits
// [9:8] are reserved for software, bits [7:0] are the flags above.
type PTE uint64

// NewPTE builds a leaf or intermediate entry pointing at ppn with the
// given flags.
func NewPTE(ppn PhysPageNum, flags PTEFlags) PTE {
	return PTE(uint64(ppn)<<10 | uint64(flags))
}

// PPN extracts the 44-bit physical page number from the entry.
func (e PTE) PPN() PhysPageNum { return PhysPageNum((uint64(e) >> 10) & ((1 << ppnWidthSv39) - 1)) }

// Flags extracts the low 8 flag bits from the entry.
func (e PTE) Flags() PTEFlags { return PTEFlags(uint64(e)) }

// Valid reports whether the entry's V bit is set.
func (e PTE) Valid() bool { return e.Flags().Has(PTEV) }

// Readable, Writable and Executable report the corresponding permission
// bit.
func (e PTE) Readable() bool   { return e.Flags().Has(PTER) }
func (e PTE) Writable() bool   { return e.Flags().Has(PTEW) }
func (e PTE) Executable() bool { return e.Flags().Has(PTEX) }

// bytesAsPTEs reinterprets a 4 KiB frame as 512 page-table entries. buf
// must be exactly PageSize bytes, as produced by PhysPageNum.Bytes.
func bytesAsPTEs(buf []byte) []PTE {
	if len(buf) != PageSize {
		panic("mem: PTE view requires a full page")
	}
	return unsafe.Slice((*PTE)(unsafe.Pointer(&buf[0])), PageSize/8)
}

// As reinterprets the frame named by p as a *T placed at its first
// byte; the caller must ensure T fits within PageSize and that the
// frame is still owned for as long as the reference is live.
func As[T any](p PhysPageNum) *T {
	buf := p.Bytes()
	var zero T
	if int(unsafe.Sizeof(zero)) > len(buf) {
		panic("mem: type does not fit in one page")
	}
	return (*T)(unsafe.Pointer(&buf[0]))
}
