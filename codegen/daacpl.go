package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateDaa lowers DAA: corrects guest A to valid packed BCD after an
// 8-bit add or subtract. The correction branches on the cached N/H/C flags
// rather than on fresh arithmetic flags, since the correction has to run
// before any flag is recomputed from the corrected value.
func generateDaa(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	flags := Scratch // the cached LAHF-format byte, held for the whole routine
	outC := amd.RDI  // resulting carry bit; only the addition branch can set it
	tmp := amd.RSI

	a.MovzxR32Mem8(flags, amd.RBP, slotFlags)
	a.MovRegReg(outC, flags)
	a.AndRegImm32(outC, 0x01)

	test := func(bit uint32) {
		a.MovRegReg(tmp, flags)
		a.AndRegImm32(tmp, bit)
		a.CmpRegImm32(tmp, 0)
	}

	lSub := a.NewLabel("daa_sub")
	lHi := a.NewLabel("daa_hi")
	lHiSkip := a.NewLabel("daa_hi_skip")
	lLo := a.NewLabel("daa_lo")
	lLoSkip := a.NewLabel("daa_lo_skip")
	lSubHiSkip := a.NewLabel("daa_sub_hi_skip")
	lSubLo := a.NewLabel("daa_sub_lo")
	lZset := a.NewLabel("daa_zset")
	lZdone := a.NewLabel("daa_zdone")
	lDone := a.NewLabel("daa_done")

	test(0x20) // N
	a.JccLabel(amd.CondNE, lSub)

	// addition branch: +0x60 (and set the carry) if C was set or al>0x99
	test(0x01)
	a.JccLabel(amd.CondNE, lHi)
	a.CmpR8Imm8(RegA, 0x99)
	a.JccLabel(amd.CondBE, lHiSkip)
	a.Label(lHi)
	a.AddR8Imm8(RegA, 0x60)
	a.MovRegImm32(outC, 1)
	a.Label(lHiSkip)

	// +0x06 if H was set or the low nibble exceeds 9
	test(0x10)
	a.JccLabel(amd.CondNE, lLo)
	a.MovRegReg(tmp, RegA)
	a.AndRegImm32(tmp, 0x0f)
	a.CmpRegImm32(tmp, 0x09)
	a.JccLabel(amd.CondBE, lLoSkip)
	a.Label(lLo)
	a.AddR8Imm8(RegA, 0x06)
	a.Label(lLoSkip)
	a.JmpLabel(lDone)

	// subtraction branch: the carry never changes; -0x60/-0x06 only run
	// when the matching flag was already set going in.
	a.Label(lSub)
	test(0x01)
	a.JccLabel(amd.CondE, lSubHiSkip)
	a.SubR8Imm8(RegA, 0x60)
	a.Label(lSubHiSkip)
	test(0x10)
	a.JccLabel(amd.CondE, lSubLo)
	a.SubR8Imm8(RegA, 0x06)
	a.Label(lSubLo)

	a.Label(lDone)
	a.AndRegImm32(flags, 0x20) // keep N, drop the stale Z/H/C
	a.CmpR8Imm8(RegA, 0)
	a.JccLabel(amd.CondE, lZset)
	a.JmpLabel(lZdone)
	a.Label(lZset)
	a.OrRegImm32(flags, 0x40)
	a.Label(lZdone)
	a.OrRegReg(flags, outC)
	a.MovMem8R8(amd.RBP, slotFlags, flags)
	return EpilogueDescription{}
}

// generateCpl lowers CPL: A = ~A, setting N and H and leaving Z and C alone.
func generateCpl(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	a.NotR8(RegA)
	a.MovzxR32Mem8(Scratch, amd.RBP, slotFlags)
	a.OrRegImm32(Scratch, 0x30)
	a.MovMem8R8(amd.RBP, slotFlags, Scratch)
	return EpilogueDescription{}
}
