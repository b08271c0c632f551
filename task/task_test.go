package task

import (
	"bytes"
	"encoding/binary"
	"testing"

	"rv39kernel/mem"
	"rv39kernel/physmem"
)

func buildMinimalELF(t *testing.T, entry uint64, code []byte) []byte {
	t.Helper()
	const ehdrSize, phdrSize = 64, 56

	var buf bytes.Buffer
	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
	buf.Write(ident[:])

	type ehdr struct {
		Type, Machine       uint16
		Version             uint32
		Entry, Phoff, Shoff uint64
		Flags               uint32
		Ehsize, Phentsize   uint16
		Phnum               uint16
		Shentsize, Shnum    uint16
		Shstrndx            uint16
	}
	binary.Write(&buf, binary.LittleEndian, ehdr{
		Type: 2, Machine: 243, Version: 1,
		Entry: entry, Phoff: ehdrSize, Ehsize: ehdrSize,
		Phentsize: phdrSize, Phnum: 1,
	})

	type phdr struct {
		Type, Flags           uint32
		Offset, Vaddr, Paddr  uint64
		Filesz, Memsz, Align  uint64
	}
	binary.Write(&buf, binary.LittleEndian, phdr{
		Type: 1, Flags: 5,
		Offset: ehdrSize + phdrSize, Vaddr: entry, Paddr: entry,
		Filesz: uint64(len(code)), Memsz: uint64(len(code)), Align: 0x1000,
	})
	buf.Write(code)
	return buf.Bytes()
}

func newWindow(t *testing.T, npages int) {
	t.Helper()
	phys := physmem.New(0, npages)
	mem.InitPhysWindow(phys)
	mem.InitFrameAllocator(mem.PhysPageNum(0), mem.PhysPageNum(npages))
}

func TestNewControlBlockStartsReady(t *testing.T) {
	newWindow(t, 256)
	trampoline, _ := mem.FrameAlloc()
	elfBytes := buildMinimalELF(t, 0x1000, bytes.Repeat([]byte{0x13, 0, 0, 0}, 8))

	tcb, err := NewControlBlock(trampoline.PPN, 0xdead, 0xbeef, 0, elfBytes)
	if err != nil {
		t.Fatalf("NewControlBlock() error = %v", err)
	}
	if tcb.Status != Ready {
		t.Errorf("Status = %v, want Ready", tcb.Status)
	}
	if tcb.Cx.SP == 0 {
		t.Error("initial task Context.SP should be the task's kernel stack top")
	}
}

func TestNewControlBlockTrapContext(t *testing.T) {
	newWindow(t, 256)
	trampoline, _ := mem.FrameAlloc()
	elfBytes := buildMinimalELF(t, 0x2000, bytes.Repeat([]byte{0x13, 0, 0, 0}, 8))

	tcb, err := NewControlBlock(trampoline.PPN, 0x1111, 0x2222, 1, elfBytes)
	if err != nil {
		t.Fatalf("NewControlBlock() error = %v", err)
	}
	cx := tcb.TrapCx()
	if cx.Sepc != 0x2000 {
		t.Errorf("Sepc = %#x, want 0x2000", cx.Sepc)
	}
	if cx.KernelSatp != 0x1111 {
		t.Errorf("KernelSatp = %#x, want 0x1111", cx.KernelSatp)
	}
	if cx.TrapHandler != 0x2222 {
		t.Errorf("TrapHandler = %#x, want 0x2222", cx.TrapHandler)
	}
	if cx.X[2] != tcb.BaseSize {
		t.Errorf("user sp (x2) = %#x, want %#x (BaseSize)", cx.X[2], tcb.BaseSize)
	}
}

func TestChangeProgramBrkGrowAndShrink(t *testing.T) {
	newWindow(t, 256)
	trampoline, _ := mem.FrameAlloc()
	elfBytes := buildMinimalELF(t, 0x3000, bytes.Repeat([]byte{0x13, 0, 0, 0}, 8))

	tcb, err := NewControlBlock(trampoline.PPN, 0, 0, 2, elfBytes)
	if err != nil {
		t.Fatalf("NewControlBlock() error = %v", err)
	}

	oldBrk, ok := tcb.ChangeProgramBrk(int64(mem.PageSize))
	if !ok {
		t.Fatal("growing the heap by one page should succeed")
	}
	if oldBrk != tcb.HeapBottom {
		t.Errorf("ChangeProgramBrk() returned %#x, want the prior brk %#x", oldBrk, tcb.HeapBottom)
	}
	if tcb.ProgramBrk != tcb.HeapBottom+mem.PageSize {
		t.Errorf("ProgramBrk = %#x, want %#x", tcb.ProgramBrk, tcb.HeapBottom+mem.PageSize)
	}

	if _, ok := tcb.ChangeProgramBrk(-2 * mem.PageSize); ok {
		t.Error("shrinking past HeapBottom should fail")
	}

	if _, ok := tcb.ChangeProgramBrk(-int64(mem.PageSize)); !ok {
		t.Fatal("shrinking back to HeapBottom should succeed")
	}
	if tcb.ProgramBrk != tcb.HeapBottom {
		t.Errorf("ProgramBrk = %#x, want HeapBottom %#x", tcb.ProgramBrk, tcb.HeapBottom)
	}
}
