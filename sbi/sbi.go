// Package sbi is the kernel's only contact point with the Supervisor
// Binary Interface: console I/O, the timer, and shutdown. Every
// primitive here is split into a real riscv64 ecall and a portable
// simulation, since an ecall is meaningless on any host but riscv64.
package sbi

const (
	extConsolePutchar = 1
	extSetTimer       = 0
	extShutdown       = 8
)

// ConsolePutchar writes one byte to the platform console.
func ConsolePutchar(c byte) {
	ecall(extConsolePutchar, uint64(c), 0, 0)
}

// SetTimer arms the supervisor timer to fire at the given mtime value.
func SetTimer(stimeValue uint64) {
	ecall(extSetTimer, stimeValue, 0, 0)
}

// Shutdown halts the machine. It never returns.
func Shutdown() {
	ecall(extShutdown, 0, 0, 0)
	for {
	}
}
