//go:build riscv64

package trap

import "rv39kernel/trapctx"

// trampolineAllTraps and trampolineRestore are implemented in
// trampoline_riscv64.s. Neither is ever called directly from Go;
// cmd/kernel copies their machine code into the shared trampoline
// physical frame and every address space maps that frame executable at
// defs.Trampoline, so the hardware itself jumps there on trap entry.
func trampolineAllTraps()
func trampolineRestore()

// readScause maps the scause CSR (and stval for faults) to a Cause.
func readScause() (Cause, uint64) {
	cause, stval := rawScauseStval()
	const interruptBit = 1 << 63
	if cause&interruptBit != 0 {
		if cause&^interruptBit == 5 { // supervisor timer interrupt
			return SupervisorTimer, stval
		}
		return Other, stval
	}
	switch cause {
	case 8: // environment call from U-mode
		return UserEnvCall, stval
	case 1:
		return InstructionFault, stval
	case 12:
		return InstructionPageFault, stval
	case 5:
		return LoadFault, stval
	case 13:
		return LoadPageFault, stval
	case 7:
		return StoreFault, stval
	case 15:
		return StorePageFault, stval
	case 2:
		return IllegalInstruction, stval
	default:
		return Other, stval
	}
}

// rawScauseStval is implemented in entry_riscv64.s.
func rawScauseStval() (uint64, uint64)

// TrapEntry is called (from a small hand-written handoff, not shown
// here since it is below the line where Go's calling convention can
// still be relied on) once __alltraps has saved the full trap context
// and switched into the kernel address space. It reads why the trap
// happened and dispatches it; it discards Handler's result and passes
// nothing back to __restore.
func TrapEntry(cxPtr *trapctx.Context) {
	cause, stval := readScause()
	next := Handler(cause, stval, cxPtr)
	_ = next // __restore reads the resuming task's own trap cx via sched, not a return value
}
