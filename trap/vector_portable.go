//go:build !riscv64

package trap

// SetKernelTrap and SetUserTrap are no-ops on a host build: there is no
// stvec CSR, and traps are driven by calling Handler directly (see
// ReturnToUser in return_portable.go) rather than by hardware vectoring
// into the trampoline.
func SetKernelTrap() {}
func SetUserTrap()   {}
