//go:build !riscv64

package vm

// activateSatp is a no-op everywhere but riscv64: there is no hardware
// satp CSR or TLB to touch, and every address-space lookup already goes
// through the active MemorySet's own PageTable rather than through
// hardware page-table walks.
func activateSatp(token uint64) {}
