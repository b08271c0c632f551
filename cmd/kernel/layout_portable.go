//go:build !riscv64

package main

import (
	"rv39kernel/defs"
	"rv39kernel/mem"
	"rv39kernel/vm"
)

// kernelLayout synthesizes section boundaries over the simulated
// physical window on a host build, since there is no linker script to
// define stext/etext and friends. The exact split is arbitrary; all
// that matters for the memory-set invariants under test is that the
// ranges are disjoint, page-aligned, and ordered the way a real image
// lays them out (text, rodata, data, bss, then the rest of RAM).
func kernelLayout(trampolinePPN mem.PhysPageNum) vm.KernelLayout {
	const (
		base        = defs.AppBaseAddress - 8*mem.PageSize
		textSize    = 2 * mem.PageSize
		rodataSize  = mem.PageSize
		dataSize    = 2 * mem.PageSize
		bssSize     = 3 * mem.PageSize
	)
	text := base
	rodata := text + textSize
	data := rodata + rodataSize
	bss := data + dataSize
	ekernel := bss + bssSize

	return vm.KernelLayout{
		TextStart:       text,
		TextEnd:         rodata,
		RodataStart:     rodata,
		RodataEnd:       data,
		DataStart:       data,
		DataEnd:         bss,
		BSSStart:        bss,
		BSSEnd:          ekernel,
		PhysWindowStart: ekernel,
		PhysWindowEnd:   defs.MemoryEnd,
		TrampolinePPN:   trampolinePPN,
	}
}
