package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateAluHalf lowers the eight 8-bit ALU families (ADD/ADC/SUB/SBC/AND/
// XOR/OR/CP) against guest A. ADC/SBC reload the cached carry into eflags
// first; CP runs the subtraction only for its flags, leaving A untouched.
func generateAluHalf(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd
	loadAluOperand(a, ctx, cmd.AluOp, Scratch2) // Scratch2: loadHostFlags uses Scratch

	switch cmd.Alu {
	case ir.AluAdd:
		a.AddR8R8(RegA, Scratch2)
		storeFlags(a, false)
	case ir.AluAdc:
		loadHostFlags(a)
		a.AdcR8R8(RegA, Scratch2)
		storeFlags(a, false)
	case ir.AluSub:
		a.SubR8R8(RegA, Scratch2)
		storeFlags(a, true)
	case ir.AluSbc:
		loadHostFlags(a)
		a.SbbR8R8(RegA, Scratch2)
		storeFlags(a, true)
	case ir.AluAnd:
		a.AndR8R8(RegA, Scratch2)
		storeLogicFlags(a, true)
	case ir.AluXor:
		a.XorR8R8(RegA, Scratch2)
		storeLogicFlags(a, false)
	case ir.AluOr:
		a.OrR8R8(RegA, Scratch2)
		storeLogicFlags(a, false)
	case ir.AluCp:
		a.CmpR8R8(RegA, Scratch2)
		storeFlags(a, true)
	}
	return EpilogueDescription{}
}

// loadAluOperand reads an ALU instruction's right-hand operand (a register,
// (HL), or an 8-bit immediate) into dst's low byte.
func loadAluOperand(a *amd.Assembler, ctx *Context, op ir.AluOperand, dst amd.Reg64) {
	if op.Kind == ir.AluOperandImm {
		a.MovR8Imm8(dst, op.Imm)
		return
	}
	loadLocation(a, ctx, op.Loc, dst)
}
