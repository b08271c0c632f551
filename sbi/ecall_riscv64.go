//go:build riscv64

package sbi

// ecall is implemented in ecall_riscv64.s: it places which in a7 and
// arg0-arg2 in a0-a2, traps to M-mode, and returns a0.
func ecall(which int, arg0, arg1, arg2 uint64) uint64
