package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateLdFullImm lowers `LD rr,nn`: a plain 16-bit immediate move into
// the pinned host register backing rr.
func generateLdFullImm(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	a.MovR16Imm16(fullRegHost(inst.Cmd.FullReg), inst.Cmd.Imm16)
	return EpilogueDescription{}
}

// generateStoreSP lowers `LD (nn),SP`: SP is written out little-endian as
// two bus writes to consecutive addresses.
func generateStoreSP(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	addr := inst.Cmd.StoreAddr
	a.MovRegReg(Scratch, RegSP)
	a.AndRegImm32(Scratch, 0xff)
	a.MovRegImm32(Scratch2, uint32(addr))
	busWrite(a, ctx, Scratch2, Scratch)

	a.MovRegReg(Scratch, RegSP)
	a.ShrRegImm8(Scratch, 8)
	a.AndRegImm32(Scratch, 0xff)
	a.MovRegImm32(Scratch2, uint32(addr+1))
	busWrite(a, ctx, Scratch2, Scratch)
	return EpilogueDescription{}
}

// generateLdSPHL lowers `LD SP,HL`.
func generateLdSPHL(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	a.MovR16R16(RegSP, RegHL)
	return EpilogueDescription{}
}
