// Package loader is the kernel's collaborator for turning raw
// application bytes into the pieces a memory set needs: the entry
// point and loadable segments out of an ELF image, and the index table
// out of a multi-app binary blob.
package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
)

// Segment is one PT_LOAD program header: a range of virtual memory the
// loader must back with pages and fill from the file.
type Segment struct {
	VA      uint64
	MemSize uint64
	Data    []byte
	R, W, X bool
}

// ParseELF validates that raw is a RV64 executable and returns its
// entry point and loadable segments. debug/elf itself verifies the
// four-byte magic and ELF class/data encoding as part of NewFile;
// ParseELF additionally rejects non-RISC-V, non-executable images.
func ParseELF(raw []byte) (entry uint64, segs []Segment, err error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	if f.Machine != elf.EM_RISCV {
		return 0, nil, fmt.Errorf("loader: not a RISC-V image (machine %v)", f.Machine)
	}
	if f.Type != elf.ET_EXEC {
		return 0, nil, fmt.Errorf("loader: not an executable image (type %v)", f.Type)
	}
	if f.Class != elf.ELFCLASS64 {
		return 0, nil, fmt.Errorf("loader: not a 64-bit image")
	}

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, p.Filesz)
		if _, err := io.ReadFull(p.Open(), data); err != nil {
			return 0, nil, fmt.Errorf("loader: reading segment at %#x: %w", p.Vaddr, err)
		}
		segs = append(segs, Segment{
			VA:      p.Vaddr,
			MemSize: p.Memsz,
			Data:    data,
			R:       p.Flags&elf.PF_R != 0,
			W:       p.Flags&elf.PF_W != 0,
			X:       p.Flags&elf.PF_X != 0,
		})
	}
	return f.Entry, segs, nil
}
