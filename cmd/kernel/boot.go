// Command kernel is the bootable core this repository builds: it
// brings up the heap, the frame allocator, the kernel's own address
// space, loads every embedded application, and falls into the
// scheduler, in one linear boot sequence.
package main

import (
	"fmt"
	"log/slog"

	"rv39kernel/defs"
	"rv39kernel/heap"
	"rv39kernel/loader"
	"rv39kernel/mem"
	"rv39kernel/physmem"
	"rv39kernel/sbi"
	"rv39kernel/sched"
	"rv39kernel/task"
	"rv39kernel/trap"
	"rv39kernel/vm"
)

// Kernel holds the pieces Boot wires together, so tests can inspect
// boot state without going through package-level globals.
type Kernel struct {
	Heap      *heap.Arena
	Memory    *vm.MemorySet
	Tasks     []*task.ControlBlock
	Phys      *physmem.Memory
	Trampoline mem.PhysPageNum
}

// Boot performs every step the system needs before it can run
// application code: carve out the kernel heap, initialize the frame
// allocator over the remaining physical memory, build and activate the
// kernel's own identity-mapped address space, and load every app image
// in the blob into its own task. It does not itself start running
// tasks; call sched.RunFirstTask after Boot succeeds.
func Boot(blob *loader.AppBlob) (*Kernel, error) {
	slog.Info("booting", "apps", blob.NumApps())

	heapArena := heap.NewArena(defs.KernelHeapSize)

	phys := physmem.New(defs.MemoryStart, (defs.MemoryEnd-defs.MemoryStart)/mem.PageSize)
	mem.InitPhysWindow(phys)

	layout := kernelLayout(0)
	firstFreePPN := mem.NewPhysAddr(layout.PhysWindowStart).Ceil()
	lastPPN := mem.NewPhysAddr(defs.MemoryEnd).Floor()
	mem.InitFrameAllocator(firstFreePPN, lastPPN)

	trampoline, ok := mem.FrameAlloc()
	if !ok {
		return nil, fmt.Errorf("kernel: out of memory allocating the trampoline frame")
	}

	layout.TrampolinePPN = trampoline.PPN
	kernelSpace := vm.NewKernel(layout)
	kernelSpace.Activate()

	trapHandlerAddr := trapHandlerEntry()

	tasks := make([]*task.ControlBlock, blob.NumApps())
	for i := range tasks {
		tcb, err := task.NewControlBlock(trampoline.PPN, kernelSpace.Token(), trapHandlerAddr, i, blob.AppImage(i))
		if err != nil {
			return nil, fmt.Errorf("kernel: loading app %d: %w", i, err)
		}
		tasks[i] = tcb
	}
	sched.Init(tasks)

	trap.SetKernelTrap()
	sbi.SetNextTrigger()

	return &Kernel{
		Heap:       heapArena,
		Memory:     kernelSpace,
		Tasks:      tasks,
		Phys:       phys,
		Trampoline: trampoline.PPN,
	}, nil
}

// Run starts the scheduler and blocks until every task has exited.
func Run() {
	sched.RunFirstTask()
}
