//go:build riscv64

package sbi

// ReadTime reads the time CSR directly; it is implemented in
// time_riscv64.s rather than via an ecall since rdtime is a
// user-mode-accessible instruction.
func ReadTime() uint64
