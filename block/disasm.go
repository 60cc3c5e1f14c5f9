package block

import (
	"fmt"
	"strings"

	"github.com/sean-purcell/gbjit/ir"
)

// Disassemble renders one line per guest instruction: its address, guest
// encoding, and the host machine code bytes the generator emitted for it.
// There's no x86-64 disassembler anywhere in the example pack (nor any
// other library that decodes host instruction mnemonics from raw bytes) —
// this is deliberately a byte-level listing rather than mnemonic output,
// the same "IR + host disassembly" shape spec.md §4.3 calls the Executor's
// optional log sink, good enough to eyeball what codegen produced for a
// given guest opcode without pulling in an unrelated disassembler
// dependency for a debug-only path.
func (b *Block) Disassemble(baseAddr uint16, insts []ir.Instruction) string {
	var sb strings.Builder
	pc := baseAddr
	for i, inst := range insts {
		start := b.instOffsets[i]
		end := len(b.cg.Code)
		if i+1 < len(b.instOffsets) {
			end = b.instOffsets[i+1]
		}
		host := b.cg.Code[start:end]
		fmt.Fprintf(&sb, "%04x: %-8s -> %s\n", pc, hexBytes(inst.Bytes()), hexBytes(host))
		pc += inst.Size()
	}
	return sb.String()
}

func hexBytes(bs []byte) string {
	var sb strings.Builder
	for i, b := range bs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
