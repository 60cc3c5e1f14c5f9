package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generatePush lowers `PUSH rr` (including PUSH AF, which must first
// materialize the cached LAHF-format flags into the guest F byte layout):
// decrement SP by 2, then two bus writes: the high byte to sp+1 first, then
// the low byte to sp, leaving the word little-endian on the guest stack
// (the layout POP reads back). A low byte held in Scratch is stashed in the
// scratch stack slot, since Scratch does not survive the first bus call.
func generatePush(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	hi, lo := pushPair(a, inst.Cmd.FullReg)
	if lo == Scratch {
		a.MovMemR16(amd.RBP, slotTemp16, Scratch)
	}

	a.SubRegImm32(RegSP, 2)
	addr := func() {
		a.MovRegReg(Scratch2, RegSP)
		a.AndRegImm32(Scratch2, 0xffff)
	}
	addr()
	a.AddRegImm32(Scratch2, 1)
	busWrite(a, ctx, Scratch2, hi)
	addr()
	if lo == Scratch {
		a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
	}
	busWrite(a, ctx, Scratch2, lo)
	return EpilogueDescription{}
}

// pushPair returns (highByteSrc, lowByteSrc) registers holding the 16-bit
// register's bytes, computing the AF special case (materializing the
// flags cache into Scratch's low byte, guest A already live in al).
func pushPair(a *amd.Assembler, r ir.Reg) (hi, lo amd.Reg64) {
	if r == ir.AF {
		materializeAF(a, Scratch)
		return RegA, Scratch
	}
	host := fullRegHost(r)
	a.MovRegReg(Scratch, host)
	a.ShrRegImm8(Scratch, 8)
	a.AndRegImm32(Scratch, 0xff)
	return Scratch, host
}

// generatePop lowers `POP rr` (including POP AF, which deconstructs the
// popped F byte back into the LAHF-format flags cache). The stack holds the
// low byte (F, for AF) at [sp] and the high byte (A, for AF) at [sp+1],
// matching the GB's little-endian 16-bit layout and PUSH's write order. The
// lo byte is stashed in the scratch stack slot rather than trusted to
// survive the second bus call: Scratch is a plain compiler temporary, not
// one of the pinned registers busRead preserves across the callback.
func generatePop(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	busRead(a, ctx, Scratch2, Scratch) // lo byte -> Scratch, guest A untouched
	a.AndRegImm32(Scratch, 0xff)
	a.MovMemR16(amd.RBP, slotTemp16, Scratch)

	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	a.AddRegImm32(Scratch2, 1)

	switch inst.Cmd.FullReg {
	case ir.AF:
		busRead(a, ctx, Scratch2, RegA) // hi byte (popped A) lands directly in guest A
		a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
		deconstructAF(a, Scratch) // lo byte was the popped F
	default:
		busRead(a, ctx, Scratch2, Scratch2) // hi byte -> Scratch2, addr no longer needed
		a.AndRegImm32(Scratch2, 0xff)
		a.ShlRegImm8(Scratch2, 8)
		a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
		a.AndRegImm32(Scratch, 0xffff)
		a.OrRegReg(Scratch2, Scratch)
		a.MovR16R16(fullRegHost(inst.Cmd.FullReg), Scratch2)
	}

	a.AddRegImm32(RegSP, 2)
	return EpilogueDescription{}
}
