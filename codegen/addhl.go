package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateAddHL lowers `ADD HL,rr`: a 16-bit add that leaves Z untouched,
// clears N, and sets H/C from the carries out of bit 11 and bit 15. Host
// arithmetic flags don't expose either boundary directly for a 16-bit op, so
// both are derived by comparing masked sums against their boundary instead
// of reading eflags.
func generateAddHL(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	src := fullRegHost(inst.Cmd.FullReg)
	newFlags := amd.R10

	sum := Scratch
	a.MovRegReg(sum, RegHL)
	a.AndRegImm32(sum, 0xffff)
	a.MovRegReg(Scratch2, src)
	a.AndRegImm32(Scratch2, 0xffff)
	a.AddRegReg(sum, Scratch2)

	a.MovzxR32Mem8(newFlags, amd.RBP, slotFlags)
	a.AndRegImm32(newFlags, 0x40) // keep Z, drop stale N/H/C

	lNoC := a.NewLabel("addhl_noc")
	a.CmpRegImm32(sum, 0xffff)
	a.JccLabel(amd.CondBE, lNoC)
	a.OrRegImm32(newFlags, 0x01)
	a.Label(lNoC)
	a.AndRegImm32(sum, 0xffff) // this is the new HL value

	lowSum := amd.RDI
	a.MovRegReg(lowSum, RegHL)
	a.AndRegImm32(lowSum, 0x0fff)
	a.MovRegReg(Scratch2, src)
	a.AndRegImm32(Scratch2, 0x0fff)
	a.AddRegReg(lowSum, Scratch2)

	lNoH := a.NewLabel("addhl_noh")
	a.CmpRegImm32(lowSum, 0x0fff)
	a.JccLabel(amd.CondBE, lNoH)
	a.OrRegImm32(newFlags, 0x10)
	a.Label(lNoH)

	a.MovR16R16(RegHL, sum)
	a.MovMem8R8(amd.RBP, slotFlags, newFlags)
	return EpilogueDescription{}
}
