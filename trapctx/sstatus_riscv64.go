//go:build riscv64

package trapctx

const sppMask = 1 << 8

// sstatusUserInitial reads the current sstatus and clears SPP, so a
// sret using this value drops into U-mode.
func sstatusUserInitial() uint64 {
	return readSstatus() &^ sppMask
}

// readSstatus is implemented in sstatus_riscv64.s.
func readSstatus() uint64
