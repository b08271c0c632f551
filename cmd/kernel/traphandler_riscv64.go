//go:build riscv64

package main

// trapHandlerEntry returns the address __alltraps jumps to once it has
// finished saving the trap context and switching into the kernel
// address space.
func trapHandlerEntry() uint64 {
	return trapEntryAddr()
}

func trapEntryAddr() uint64
