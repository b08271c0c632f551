//go:build riscv64

package task

import "rv39kernel/defs"

// restoreOffset is __restore's byte offset from __alltraps within the
// trampoline page, fixed by trampoline_riscv64.s's instruction layout
// with trampolineRestore placed directly after trampolineAllTraps.
const restoreOffset = 44 * 4 // __alltraps is 44 four-byte instructions long

// trapReturnEntry returns the virtual address of __restore inside the
// trampoline page, the address every task's first context switch must
// resume at.
func trapReturnEntry() uint64 {
	return defs.Trampoline + restoreOffset
}
