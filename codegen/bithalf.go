package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateBitHalf lowers the CB-prefixed family against a register or (HL):
// the rotate/shift group (RLC/RL/RRC/RR/SLA/SRA/SWAP/SRL), BIT (test only,
// no write-back), and SET/RES (write-back, flags untouched).
func generateBitHalf(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd

	switch cmd.Bit {
	case ir.BitBit:
		loadLocation(a, ctx, cmd.Loc, Scratch)
		testBit(a, Scratch, cmd.BitNum)
		return EpilogueDescription{}
	case ir.BitSet:
		loadLocation(a, ctx, cmd.Loc, Scratch)
		a.OrRegImm32(Scratch, uint32(1)<<cmd.BitNum)
		storeLocation(a, ctx, cmd.Loc, Scratch)
		return EpilogueDescription{}
	case ir.BitRes:
		loadLocation(a, ctx, cmd.Loc, Scratch)
		a.AndRegImm32(Scratch, ^(uint32(1) << cmd.BitNum))
		storeLocation(a, ctx, cmd.Loc, Scratch)
		return EpilogueDescription{}
	}

	loadLocation(a, ctx, cmd.Loc, Scratch2) // Scratch2: loadHostFlags uses Scratch
	switch cmd.Bit {
	case ir.BitRlc:
		a.RolR8(Scratch2)
	case ir.BitRrc:
		a.RorR8(Scratch2)
	case ir.BitRl:
		loadHostFlags(a)
		a.RclR8(Scratch2)
	case ir.BitRr:
		loadHostFlags(a)
		a.RcrR8(Scratch2)
	case ir.BitSla:
		a.ShlR8(Scratch2)
	case ir.BitSra:
		a.SarR8(Scratch2)
	case ir.BitSwap:
		a.RolR8Imm8(Scratch2, 4)
	case ir.BitSrl:
		a.ShrR8(Scratch2)
	}

	if cmd.Bit == ir.BitSwap {
		storeSwapFlags(a, Scratch2)
	} else {
		storeShiftFlags(a, Scratch2)
	}
	storeLocation(a, ctx, cmd.Loc, Scratch2)
	return EpilogueDescription{}
}

// testBit sets Z from bit n of valReg, forces N=0 H=1, and leaves C as
// cached.
func testBit(a *amd.Assembler, valReg amd.Reg64, n uint8) {
	tmp := Scratch2
	a.MovRegReg(tmp, valReg)
	a.AndRegImm32(tmp, uint32(1)<<n)

	newFlags := amd.R10
	a.MovzxR32Mem8(newFlags, amd.RBP, slotFlags)
	a.AndRegImm32(newFlags, 0x01) // keep only C
	a.OrRegImm32(newFlags, 0x10)  // H always 1

	lSet := a.NewLabel("bit_zset")
	lDone := a.NewLabel("bit_zdone")
	a.CmpRegImm32(tmp, 0)
	a.JccLabel(amd.CondE, lSet)
	a.JmpLabel(lDone)
	a.Label(lSet)
	a.OrRegImm32(newFlags, 0x40)
	a.Label(lDone)
	a.MovMem8R8(amd.RBP, slotFlags, newFlags)
}

// storeShiftFlags caches Z (from result) and C (the host CF the rotate/
// shift just produced, captured via lahf before anything else touches
// eflags); N and H always clear.
func storeShiftFlags(a *amd.Assembler, result amd.Reg64) {
	a.Lahf()
	a.AndR8Imm8(amd.AH, 0x01)

	lSet := a.NewLabel("shift_zset")
	lDone := a.NewLabel("shift_zdone")
	a.MovzxR32R8(result, result) // Z looks at the 8-bit result only
	a.CmpRegImm32(result, 0)
	a.JccLabel(amd.CondE, lSet)
	a.JmpLabel(lDone)
	a.Label(lSet)
	a.OrR8Imm8(amd.AH, 0x40)
	a.Label(lDone)
	a.MovMem8R8(amd.RBP, slotFlags, amd.AH)
}

// storeSwapFlags caches Z (from result); N, H, and C always clear (the host
// rotate-by-4's own CF isn't meaningful for SWAP).
func storeSwapFlags(a *amd.Assembler, result amd.Reg64) {
	newFlags := amd.R10
	a.MovRegImm32(newFlags, 0)

	lSet := a.NewLabel("swap_zset")
	lDone := a.NewLabel("swap_zdone")
	a.MovzxR32R8(result, result) // Z looks at the 8-bit result only
	a.CmpRegImm32(result, 0)
	a.JccLabel(amd.CondE, lSet)
	a.JmpLabel(lDone)
	a.Label(lSet)
	a.OrRegImm32(newFlags, 0x40)
	a.Label(lDone)
	a.MovMem8R8(amd.RBP, slotFlags, newFlags)
}
