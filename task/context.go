// Package task implements the task control block and the task-level
// (as opposed to trap-level) context switch, one struct per schedulable
// thread of control.
package task

// Context is the 14-word callee-saved register file __switch spills a
// task into when it yields the CPU, and restores from when it is
// scheduled again. Only the registers the riscv64 calling convention
// requires a callee to preserve are saved; the caller-saved registers
// and the trap context are the Go stack's and trapctx.Context's
// concern respectively, not this one's.
type Context struct {
	RA uint64
	SP uint64
	S  [12]uint64
}

// GotoTrapReturn builds the context a brand-new task first switches
// into: ra points at the trap-return trampoline (so __switch's RET
// lands there instead of at some caller of __switch), sp is the top of
// the task's kernel stack, and the callee-saved registers start zeroed.
func GotoTrapReturn(kernelSP uint64) Context {
	return Context{RA: trapReturnEntry(), SP: kernelSP}
}
