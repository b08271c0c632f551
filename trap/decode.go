package trap

import (
	"golang.org/x/arch/riscv64/riscv64asm"

	"rv39kernel/sched"
	"rv39kernel/vm"
)

// decodeFaultingInstruction best-effort disassembles the instruction at
// sepc in the current task's address space, for the fault log. RISC-V
// has 16-bit compressed and 32-bit instructions; four bytes is always
// enough to contain whichever one starts there. Decoding is advisory
// only: a word that fails to decode (e.g. it really is garbage, which
// is exactly when IllegalInstruction fires) just logs as undecodable
// rather than blocking the fault-kill policy.
func decodeFaultingInstruction(sepc uint64) (text string) {
	defer func() {
		if recover() != nil {
			text = "<undecodable>"
		}
	}()
	chunks := vm.TranslatedByteBuffer(sched.CurrentToken(), sepc, 4)
	var buf [4]byte
	n := 0
	for _, c := range chunks {
		n += copy(buf[n:], c)
	}
	inst, err := riscv64asm.Decode(buf[:n])
	if err != nil {
		return "<undecodable>"
	}
	return inst.String()
}
