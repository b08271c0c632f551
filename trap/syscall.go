package trap

import (
	"rv39kernel/defs"
	"rv39kernel/sbi"
	"rv39kernel/sched"
	"rv39kernel/vm"
)

// Syscall dispatches one syscall by number with its three argument
// registers already peeled out of the trap context, returning the a0
// value to hand back to the caller.
func Syscall(id int, args [3]uint64) int64 {
	switch id {
	case defs.SYS_WRITE:
		return sysWrite(int(args[0]), args[1], int(args[2]))
	case defs.SYS_EXIT:
		return sysExit(int(args[0]))
	case defs.SYS_YIELD:
		return sysYield()
	case defs.SYS_GET_TIME:
		return sysGetTime()
	case defs.SYS_SBRK:
		return sysSbrk(int64(int32(args[0])))
	default:
		return -int64(defs.EINVAL)
	}
}

const fdStdout = 1

// sysWrite writes len bytes starting at buf in the calling task's
// address space to fd, which must be stdout; anything else is rejected
// rather than silently accepted, since this kernel has no other file
// descriptors.
func sysWrite(fd int, buf uint64, length int) int64 {
	if fd != fdStdout {
		return -int64(defs.EINVAL)
	}
	chunks := vm.TranslatedByteBuffer(sched.CurrentToken(), buf, length)
	n := 0
	for _, chunk := range chunks {
		for _, b := range chunk {
			sbi.ConsolePutchar(b)
		}
		n += len(chunk)
	}
	return int64(n)
}

func sysExit(code int) int64 {
	sched.ExitCurrentAndRunNext()
	return int64(code)
}

func sysYield() int64 {
	sched.SuspendCurrentAndRunNext()
	return 0
}

func sysGetTime() int64 {
	return int64(sbi.GetTimeMs())
}

// sysSbrk grows or shrinks the calling task's heap by delta bytes,
// returning the program break's prior value, or -1 if delta would move
// the break before the heap's bottom.
func sysSbrk(delta int64) int64 {
	tcb := sched.CurrentTask()
	oldBrk, ok := tcb.ChangeProgramBrk(delta)
	if !ok {
		return -1
	}
	return int64(oldBrk)
}
