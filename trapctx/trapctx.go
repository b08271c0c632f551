// Package trapctx defines the trap context: the fixed-layout save area
// the trampoline spills every general-purpose register into on the way
// from U-mode into S-mode, and restores from on the way back out.
package trapctx

// Context is the fixed 37-word layout the trampoline reads and writes.
// Its field order is load-bearing: __alltraps and __restore address
// every field by a constant offset from the page's base, so the struct
// must never be reordered or grown without updating the accompanying
// assembly.
type Context struct {
	// X holds the 32 general-purpose registers x0-x31 as they stood at
	// the moment of the trap (x0 is always zero and unused on save).
	X [32]uint64
	// Sstatus is the supervisor status register at trap time, needed to
	// restore the privilege mode sret returns to.
	Sstatus uint64
	// Sepc is the supervisor exception PC: the instruction to resume at,
	// or (after a syscall) the one immediately following the ecall.
	Sepc uint64
	// KernelSatp is the kernel's own page-table token, so __alltraps can
	// switch into the kernel address space before calling trap_handler.
	KernelSatp uint64
	// KernelSP is the top of this task's kernel stack, loaded into sp
	// before entering trap_handler.
	KernelSP uint64
	// TrapHandler is the address of the Go trap_handler entry point,
	// called indirectly since __alltraps cannot name a Go symbol
	// directly once it has switched address spaces.
	TrapHandler uint64
}

// NumWords is the context's size in 8-byte words, matching the field
// offsets (0 through 288) that trampoline_riscv64.s addresses.
const NumWords = 32 + 5

// New builds the initial context a task resumes into on its very first
// scheduling: x2 (sp) set to the user stack pointer, sepc set to the
// entry point, sstatus's SPP bit clear (so sret drops to U-mode), and
// the three kernel-return fields wired to the values the scheduler
// captured at boot.
func New(entry, userSP, kernelSatp, kernelSP, trapHandler uint64) Context {
	var cx Context
	cx.X[2] = userSP
	cx.Sstatus = sstatusUserInitial()
	cx.Sepc = entry
	cx.KernelSatp = kernelSatp
	cx.KernelSP = kernelSP
	cx.TrapHandler = trapHandler
	return cx
}
