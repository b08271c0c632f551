//go:build !riscv64

package main

// trapHandlerEntry has no meaning on a host build: trap.TrapEntry is
// never reached via a machine jump (see trap.ReturnToUser), so the
// trap context's TrapHandler field is just an inert placeholder value.
func trapHandlerEntry() uint64 { return 0 }
