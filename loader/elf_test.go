package loader

import (
	"bytes"
	"encoding/binary"
	"testing"
)

const (
	ehdrSize = 64
	phdrSize = 56
)

type testEhdr struct {
	Type, Machine       uint16
	Version             uint32
	Entry, Phoff, Shoff uint64
	Flags               uint32
	Ehsize, Phentsize   uint16
	Phnum               uint16
	Shentsize, Shnum    uint16
	Shstrndx            uint16
}

type testPhdr struct {
	Type, Flags          uint32
	Offset, Vaddr, Paddr uint64
	Filesz, Memsz, Align uint64
}

func buildELF(t *testing.T, machine, etype uint16, code []byte, entry, vaddr uint64, flags uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	ident := [16]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
	buf.Write(ident[:])
	binary.Write(&buf, binary.LittleEndian, testEhdr{
		Type: etype, Machine: machine, Version: 1,
		Entry: entry, Phoff: ehdrSize, Ehsize: ehdrSize,
		Phentsize: phdrSize, Phnum: 1,
	})
	binary.Write(&buf, binary.LittleEndian, testPhdr{
		Type: 1, Flags: flags,
		Offset: ehdrSize + phdrSize, Vaddr: vaddr, Paddr: vaddr,
		Filesz: uint64(len(code)), Memsz: uint64(len(code)), Align: 0x1000,
	})
	buf.Write(code)
	return buf.Bytes()
}

func TestParseELFAcceptsRV64Executable(t *testing.T) {
	code := bytes.Repeat([]byte{0x13, 0, 0, 0}, 4)
	raw := buildELF(t, 243 /* EM_RISCV */, 2 /* ET_EXEC */, code, 0x1000, 0x1000, 7)

	entry, segs, err := ParseELF(raw)
	if err != nil {
		t.Fatalf("ParseELF() error = %v", err)
	}
	if entry != 0x1000 {
		t.Errorf("entry = %#x, want 0x1000", entry)
	}
	if len(segs) != 1 {
		t.Fatalf("len(segs) = %d, want 1", len(segs))
	}
	seg := segs[0]
	if !seg.R || !seg.W || !seg.X {
		t.Error("segment with flags=7 should be R, W and X")
	}
	if !bytes.Equal(seg.Data, code) {
		t.Error("segment data does not match the source bytes")
	}
}

func TestParseELFRejectsWrongMachine(t *testing.T) {
	raw := buildELF(t, 62 /* EM_X86_64 */, 2, []byte{0x90}, 0x1000, 0x1000, 5)
	if _, _, err := ParseELF(raw); err == nil {
		t.Fatal("ParseELF() on an x86-64 image should fail")
	}
}

func TestParseELFRejectsNonExecutable(t *testing.T) {
	raw := buildELF(t, 243, 3 /* ET_DYN */, []byte{0x13, 0, 0, 0}, 0x1000, 0x1000, 5)
	if _, _, err := ParseELF(raw); err == nil {
		t.Fatal("ParseELF() on a non-ET_EXEC image should fail")
	}
}

func TestParseELFRejectsTruncatedInput(t *testing.T) {
	if _, _, err := ParseELF([]byte{0x7f, 'E', 'L', 'F'}); err == nil {
		t.Fatal("ParseELF() on a truncated header should fail")
	}
}

func TestParseELFReadOnlySegmentFlags(t *testing.T) {
	raw := buildELF(t, 243, 2, bytes.Repeat([]byte{0x13, 0, 0, 0}, 2), 0x2000, 0x2000, 5 /* R|X */)
	_, segs, err := ParseELF(raw)
	if err != nil {
		t.Fatalf("ParseELF() error = %v", err)
	}
	if segs[0].W {
		t.Error("segment with flags=5 (R|X) should not report writable")
	}
}
