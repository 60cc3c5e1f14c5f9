package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateRst lowers RST n: push the return address and jump to the fixed
// low-memory vector, exactly like an unconditional CALL to a compile-time
// constant.
func generateRst(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	size := uint32(inst.Size())
	a.MovRegReg(Scratch, RegPC)
	a.AndRegImm32(Scratch, 0xffff)
	a.AddRegImm32(Scratch, size)
	a.AndRegImm32(Scratch, 0xffff)
	pushWord16(a, ctx, Scratch)

	target := JumpDescription{Kind: JumpStatic, Target: uint16(inst.Cmd.RstTarget)}
	return EpilogueDescription{Jump: true, Target: target}
}
