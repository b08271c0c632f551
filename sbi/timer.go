package sbi

// ClockFreq is QEMU's virt machine CLINT tick rate.
const ClockFreq = 12_500_000

// TicksPerSec is how many scheduler time slices (timer interrupts) fire
// per second; each slice lasts ClockFreq/TicksPerSec clock ticks (10 ms).
const TicksPerSec = 100

// msPerSec and usPerSec convert ticks to wall-clock units for
// SYS_GET_TIME.
const (
	msPerSec = 1000
	usPerSec = 1_000_000
)

// GetTime reads the current mtime value.
func GetTime() uint64 { return ReadTime() }

// GetTimeMs returns the current time in milliseconds since boot.
func GetTimeMs() uint64 { return GetTime() / (ClockFreq / msPerSec) }

// GetTimeUs returns the current time in microseconds since boot.
func GetTimeUs() uint64 { return GetTime() * usPerSec / ClockFreq }

// SetNextTrigger arms the timer to fire one scheduling tick from now.
func SetNextTrigger() {
	SetTimer(GetTime() + ClockFreq/TicksPerSec)
}
