//go:build !riscv64

package task

// Switch is a no-op on a host build: there are no real per-task
// machine stacks or live registers for it to save and restore, since
// the portable build drives a task by calling trap.Handler directly
// rather than by switching ra/sp underneath the Go runtime.
// It exists so scheduler code has one call site that reads the same on
// every architecture.
func Switch(current, next *Context) {}
