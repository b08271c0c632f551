//go:build riscv64

package vm

// activateSatp writes token to the satp CSR and flushes the TLB.
func activateSatp(token uint64) {
	writeSatp(token)
	sfenceVMA()
}

// writeSatp and sfenceVMA are implemented in activate_riscv64.s.
func writeSatp(token uint64)
func sfenceVMA()
