package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateRotateA lowers the four unprefixed accumulator rotates (RLCA,
// RRCA, RLA, RRA). Unlike their CB-prefixed counterparts these always clear
// Z (and N, H), regardless of the result.
func generateRotateA(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	switch inst.Cmd.Bit {
	case ir.BitRlc:
		a.RolR8(RegA)
	case ir.BitRrc:
		a.RorR8(RegA)
	case ir.BitRl:
		loadHostFlags(a)
		a.RclR8(RegA)
	case ir.BitRr:
		loadHostFlags(a)
		a.RcrR8(RegA)
	}
	a.Lahf()
	a.AndR8Imm8(amd.AH, 0x01) // keep only C; Z/N/H are always clear for these forms
	a.MovMem8R8(amd.RBP, slotFlags, amd.AH)
	return EpilogueDescription{}
}
