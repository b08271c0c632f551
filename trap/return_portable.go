//go:build !riscv64

package trap

// ReturnToUser is a no-op on a host build: there is no U-mode to drop
// into and no hardware trap to wait on. A portable boot loop (or a
// test) instead drives the system by calling Handler directly with
// whatever Cause it wants to simulate, which is exactly what
// trap_test.go does.
func ReturnToUser(trapCxUserVA, userSatp uint64) {}
