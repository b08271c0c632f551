package task

import (
	"rv39kernel/defs"
	"rv39kernel/mem"
	"rv39kernel/trapctx"
	"rv39kernel/vm"
)

// Status is a task's scheduling state. Construction yields Ready
// directly: there is no UnInit state, since a ControlBlock is never
// observable before NewControlBlock has finished building it.
type Status int

const (
	Ready Status = iota
	Running
	Exited
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Exited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// ControlBlock is everything the kernel tracks about one application:
// its address space, its two save areas (task-level Context and
// trap-level trapctx.Context), and its program break for sbrk.
type ControlBlock struct {
	Status      Status
	Cx          Context
	MemorySet   *vm.MemorySet
	TrapCxPPN   mem.PhysPageNum
	BaseSize    uint64
	HeapBottom  uint64
	ProgramBrk  uint64
	KernelStack [2]uint64 // [bottom, top), for diagnostics only
}

// NewControlBlock builds task appID from its ELF image: a fresh
// address space, a trap context primed with the entry point and
// kernel-return fields, and a task context that resumes straight into
// the trap-return trampoline.
func NewControlBlock(trampolinePPN mem.PhysPageNum, kernelSatp, trapHandler uint64, appID int, elfBytes []byte) (*ControlBlock, error) {
	ms, userSP, entry, trapCxPPN, err := vm.FromELF(trampolinePPN, elfBytes)
	if err != nil {
		return nil, err
	}

	kernelStackBottom, kernelStackTop := defs.KernelStackPosition(appID)

	tcb := &ControlBlock{
		Status:     Ready,
		Cx:         GotoTrapReturn(kernelStackTop),
		MemorySet:  ms,
		TrapCxPPN:  trapCxPPN,
		BaseSize:   userSP,
		HeapBottom: userSP,
		ProgramBrk: userSP,
		KernelStack: [2]uint64{
			kernelStackBottom, kernelStackTop,
		},
	}

	*mem.As[trapctx.Context](trapCxPPN) = trapctx.New(entry, userSP, kernelSatp, kernelStackTop, trapHandler)
	return tcb, nil
}

// TrapCx returns a pointer into the task's trap-context page, live for
// as long as the page is mapped.
func (tcb *ControlBlock) TrapCx() *trapctx.Context {
	return mem.As[trapctx.Context](tcb.TrapCxPPN)
}

// Token returns this task's address space's satp value.
func (tcb *ControlBlock) Token() uint64 { return tcb.MemorySet.Token() }

// ChangeProgramBrk grows or shrinks the heap area by delta bytes,
// implementing SYS_SBRK. It returns the program break's value before
// the change (the historical sbrk return convention) and false if
// delta would move the break before HeapBottom.
func (tcb *ControlBlock) ChangeProgramBrk(delta int64) (oldBrk uint64, ok bool) {
	newBrk := int64(tcb.ProgramBrk) + delta
	if newBrk < int64(tcb.HeapBottom) {
		return 0, false
	}

	oldBrk = tcb.ProgramBrk
	heapAreaStart := mem.NewVirtAddr(tcb.HeapBottom).Floor()
	newBrkVA := mem.NewVirtAddr(uint64(newBrk))

	if delta > 0 {
		if !tcb.MemorySet.AppendTo(heapAreaStart, newBrkVA.Ceil()) {
			return 0, false
		}
	} else if delta < 0 {
		if !tcb.MemorySet.ShrinkTo(heapAreaStart, newBrkVA.Ceil()) {
			return 0, false
		}
	}
	tcb.ProgramBrk = uint64(newBrk)
	return oldBrk, true
}
