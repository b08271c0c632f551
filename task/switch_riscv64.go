//go:build riscv64

package task

// Switch is implemented in switch_riscv64.s.
func Switch(current, next *Context)
