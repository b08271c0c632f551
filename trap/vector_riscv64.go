//go:build riscv64

package trap

// SetKernelTrap points stvec at the plain kernel trap handler, used
// while the kernel itself is running (between trap_handler entry and
// trap_return) so a trap taken from S-mode does not re-enter the user
// trampoline.
func SetKernelTrap() { setStvec(kernelTrapVector()) }

// SetUserTrap points stvec at the trampoline's __alltraps entry, used
// immediately before returning to U-mode.
func SetUserTrap() { setStvec(trampolineEntryVA()) }

func setStvec(addr uint64)
func kernelTrapVector() uint64
func trampolineEntryVA() uint64
