//go:build !riscv64

package sbi

import (
	"io"
	"os"
)

// Console is where ConsolePutchar writes on a non-riscv64 build. Tests
// replace it with a buffer to capture kernel console output without a
// real UART.
var Console = io.Writer(os.Stdout)

// simTime and simDeadline simulate mtime on a non-riscv64 build: SetTimer
// records a deadline, ReadTime reports however far the simulated clock
// has been advanced by AdvanceClock (there is no free-running hardware
// timer to read on a host).
var (
	simTime     uint64
	simDeadline uint64
	halted      bool
)

// ecall dispatches the handful of SBI extensions this kernel uses
// without actually trapping, since there is no M-mode to trap into on
// a host.
func ecall(which int, arg0, arg1, arg2 uint64) uint64 {
	switch which {
	case extConsolePutchar:
		Console.Write([]byte{byte(arg0)})
	case extSetTimer:
		simDeadline = arg0
	case extShutdown:
		halted = true
	}
	return 0
}

// AdvanceClock moves the simulated clock forward by delta ticks, for
// tests driving the timer-interrupt path without real hardware.
func AdvanceClock(delta uint64) {
	simTime += delta
}

// ReadTime returns the simulated clock's current value.
func ReadTime() uint64 { return simTime }

// TimerPending reports whether the simulated clock has reached the
// last deadline armed by SetTimer.
func TimerPending() bool { return simTime >= simDeadline }

// Halted reports whether Shutdown has been called.
func Halted() bool { return halted }
