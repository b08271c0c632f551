//go:build !riscv64

package task

// trapReturnEntry has no real meaning on a host build: there is no
// trampoline page to jump into, and Switch is a no-op that never loads
// ra. The value only has to be a stable placeholder so GotoTrapReturn's
// Context is well-formed before the very first Switch.
func trapReturnEntry() uint64 { return 0 }
