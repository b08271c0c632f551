//go:build riscv64

package trap

// ReturnToUser arms stvec for the trampoline and jumps into
// __restore with the trap context's user-visible virtual address and
// the resuming task's satp, dropping the hart into U-mode at sepc. It
// does not return until that task next traps back into the kernel.
func ReturnToUser(trapCxUserVA, userSatp uint64) {
	SetUserTrap()
	jumpToRestore(trapCxUserVA, userSatp)
}

// jumpToRestore tail-calls trampolineRestore with the trampoline
// mapped in; implemented in return_riscv64.s since it must run from the
// trampoline's own identical mapping in every address space.
func jumpToRestore(trapCxUserVA, userSatp uint64)
