package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateAddSP lowers `ADD SP,e`: SP += sign-extend(e), with Z and N always
// cleared and H/C derived from the well known GB quirk that treats e as an
// unsigned byte added to SP's low byte for flag purposes only.
func generateAddSP(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	computeSPOffsetFlags(a, inst.Cmd.Offset)
	a.AddRegImm32(RegSP, uint32(int32(inst.Cmd.Offset)))
	a.AndRegImm32(RegSP, 0xffff)
	return EpilogueDescription{}
}

// generateHLSPOffset lowers `LD HL,SP+e`: same flag computation as ADD SP,e,
// but the sum lands in HL and SP itself is untouched.
func generateHLSPOffset(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	computeSPOffsetFlags(a, inst.Cmd.Offset)
	a.MovRegReg(RegHL, RegSP)
	a.AddRegImm32(RegHL, uint32(int32(inst.Cmd.Offset)))
	a.AndRegImm32(RegHL, 0xffff)
	return EpilogueDescription{}
}

// computeSPOffsetFlags sets the cached flags byte to Z=0, N=0, with H/C from
// an unsigned 8-bit add of SP's low byte against e's raw byte pattern.
func computeSPOffsetFlags(a *amd.Assembler, off int8) {
	imm := uint32(uint8(off))

	sum := Scratch
	a.MovRegReg(sum, RegSP)
	a.AndRegImm32(sum, 0xff)
	a.AddRegImm32(sum, imm)

	newFlags := amd.R10
	a.MovRegImm32(newFlags, 0)

	lNoC := a.NewLabel("spoff_noc")
	a.CmpRegImm32(sum, 0xff)
	a.JccLabel(amd.CondBE, lNoC)
	a.OrRegImm32(newFlags, 0x01)
	a.Label(lNoC)

	lowSum := Scratch2
	a.MovRegReg(lowSum, RegSP)
	a.AndRegImm32(lowSum, 0x0f)
	a.AddRegImm32(lowSum, imm&0x0f)

	lNoH := a.NewLabel("spoff_noh")
	a.CmpRegImm32(lowSum, 0x0f)
	a.JccLabel(amd.CondBE, lNoH)
	a.OrRegImm32(newFlags, 0x10)
	a.Label(lNoH)

	a.MovMem8R8(amd.RBP, slotFlags, newFlags)
}
