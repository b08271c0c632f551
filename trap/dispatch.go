package trap

import (
	"log/slog"

	"rv39kernel/sbi"
	"rv39kernel/sched"
	"rv39kernel/trapctx"
)

// FaultRecord is one entry in the fault log cmd/ksym later converts
// into a pprof profile for offline inspection.
type FaultRecord struct {
	Cause Cause
	Sepc  uint64
	Stval uint64
}

// Faults accumulates every fault that has killed a task since boot.
// cmd/ksym reads it back through a dumped log, not directly; it is
// exported here mainly so tests can assert on what got logged.
var Faults []FaultRecord

// Handler is the architecture-independent core of trap handling: given
// why control entered the kernel and the trap context it entered with,
// it dispatches a syscall, applies the fault-kill policy, or runs the
// scheduler's preemption path, and returns the context to resume with
// (ordinarily the same one it was given, since only the current task's
// own trap context is ever touched).
func Handler(cause Cause, stval uint64, cx *trapctx.Context) *trapctx.Context {
	switch {
	case cause == UserEnvCall:
		cx.Sepc += 4 // resume just past the ecall
		ret := Syscall(int(cx.X[17]), [3]uint64{cx.X[10], cx.X[11], cx.X[12]})
		cx = sched.CurrentTrapCx() // Syscall may have replaced the task (SYS_EXIT)
		cx.X[10] = uint64(ret)
		return cx

	case cause == SupervisorTimer:
		sbi.SetNextTrigger()
		sched.SuspendCurrentAndRunNext()
		return sched.CurrentTrapCx()

	case cause.isFault():
		logFault(cause, cx.Sepc, stval)
		if cause == IllegalInstruction {
			slog.Warn("killing faulting task", "cause", cause.String(), "sepc", cx.Sepc,
				"stval", stval, "instruction", decodeFaultingInstruction(cx.Sepc))
		} else {
			slog.Warn("killing faulting task", "cause", cause.String(), "sepc", cx.Sepc, "stval", stval)
		}
		sched.ExitCurrentAndRunNext()
		return sched.CurrentTrapCx()

	default:
		slog.Error("unsupported trap", "cause", cause.String(), "sepc", cx.Sepc)
		sched.ExitCurrentAndRunNext()
		return sched.CurrentTrapCx()
	}
}

func logFault(cause Cause, sepc, stval uint64) {
	Faults = append(Faults, FaultRecord{Cause: cause, Sepc: sepc, Stval: stval})
}
