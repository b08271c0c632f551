//go:build riscv64

package main

import (
	"unsafe"

	"rv39kernel/defs"
	"rv39kernel/mem"
	"rv39kernel/vm"
)

// Linker-script symbols bounding each image section, the same
// declarations config.rs makes as `extern "C" { fn stext(); ... }` and
// takes the address of rather than the value of.
var (
	stext, etext     byte
	srodata, erodata byte
	sdata, edata     byte
	sbss, ebss       byte
	ekernel          byte
)

func addr(b *byte) uint64 { return uint64(uintptr(unsafe.Pointer(b))) }

// kernelLayout reads the section boundaries the linker script defines.
func kernelLayout(trampolinePPN mem.PhysPageNum) vm.KernelLayout {
	return vm.KernelLayout{
		TextStart:       addr(&stext),
		TextEnd:         addr(&etext),
		RodataStart:     addr(&srodata),
		RodataEnd:       addr(&erodata),
		DataStart:       addr(&sdata),
		DataEnd:         addr(&edata),
		BSSStart:        addr(&sbss),
		BSSEnd:          addr(&ebss),
		PhysWindowStart: addr(&ekernel),
		PhysWindowEnd:   defs.MemoryEnd,
		TrampolinePPN:   trampolinePPN,
	}
}
