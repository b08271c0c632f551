package vm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"rv39kernel/mem"
)

// buildMinimalELF hand-assembles the smallest RV64 ET_EXEC image that
// debug/elf (and therefore loader.ParseELF) will accept: one PT_LOAD
// segment carrying code bytes at vaddr, readable and executable.
func buildMinimalELF(t *testing.T, entry, vaddr uint64, code []byte) []byte {
	t.Helper()

	const (
		ehdrSize = 64
		phdrSize = 56
	)

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
	h := ehdr{
		Type:      2,   // ET_EXEC
		Machine:   243, // EM_RISCV
		Version:   1,
		Entry:     entry,
		Phoff:     ehdrSize,
		Ehsize:    ehdrSize,
		Phentsize: phdrSize,
		Phnum:     1,
	}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		t.Fatalf("writing ehdr: %v", err)
	}

	type phdr struct {
		Type, Flags                     uint32
		Offset, Vaddr, Paddr            uint64
		Filesz, Memsz, Align            uint64
	}
	p := phdr{
		Type:   1, // PT_LOAD
		Flags:  5, // PF_R | PF_X
		Offset: ehdrSize + phdrSize,
		Vaddr:  vaddr,
		Paddr:  vaddr,
		Filesz: uint64(len(code)),
		Memsz:  uint64(len(code)),
		Align:  0x1000,
	}
	if err := binary.Write(&buf, binary.LittleEndian, p); err != nil {
		t.Fatalf("writing phdr: %v", err)
	}
	buf.Write(code)
	return buf.Bytes()
}

func TestFromELFBuildsUserAddressSpace(t *testing.T) {
	newTestWindow(t, 256)

	trampoline, ok := mem.FrameAlloc()
	if !ok {
		t.Fatal("FrameAlloc() for trampoline failed")
	}

	code := bytes.Repeat([]byte{0x13, 0x00, 0x00, 0x00}, 16) // 64 bytes of NOP-ish words
	entry := uint64(0x1000)
	elfBytes := buildMinimalELF(t, entry, entry, code)

	ms, userSP, gotEntry, trapCxPPN, err := FromELF(trampoline.PPN, elfBytes)
	if err != nil {
		t.Fatalf("FromELF() error = %v", err)
	}
	if gotEntry != entry {
		t.Errorf("entry = %#x, want %#x", gotEntry, entry)
	}
	if userSP == 0 {
		t.Error("userSP should not be zero")
	}
	if trapCxPPN == 0 {
		t.Error("trapCxPPN should not be zero")
	}

	// The code segment itself must be mapped and readable.
	segVPN := mem.NewVirtAddr(entry).Floor()
	pte, ok := ms.Translate(segVPN)
	if !ok {
		t.Fatal("code segment vpn did not translate")
	}
	if !pte.Readable() || !pte.Executable() {
		t.Error("code segment should be R and X")
	}
	if pte.Writable() {
		t.Error("code segment should not be writable")
	}

	// The segment's bytes must match what was loaded.
	got := pte.PPN().Bytes()[:len(code)]
	if !bytes.Equal(got, code) {
		t.Error("loaded segment bytes do not match the ELF's code bytes")
	}
}

func TestNewKernelMapsEverySection(t *testing.T) {
	newTestWindow(t, 256)
	trampoline, _ := mem.FrameAlloc()

	layout := KernelLayout{
		TextStart: 0, TextEnd: mem.PageSize,
		RodataStart: mem.PageSize, RodataEnd: 2 * mem.PageSize,
		DataStart: 2 * mem.PageSize, DataEnd: 3 * mem.PageSize,
		BSSStart: 3 * mem.PageSize, BSSEnd: 4 * mem.PageSize,
		PhysWindowStart: 4 * mem.PageSize, PhysWindowEnd: 8 * mem.PageSize,
		TrampolinePPN: trampoline.PPN,
	}
	ks := NewKernel(layout)

	pte, ok := ks.Translate(mem.VirtPageNum(0))
	if !ok || !pte.Executable() {
		t.Error("text section should be mapped and executable")
	}
	dataPTE, ok := ks.Translate(mem.VirtPageNum(2))
	if !ok || !dataPTE.Writable() {
		t.Error("data section should be mapped and writable")
	}
}
