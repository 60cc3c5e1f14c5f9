package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateControl lowers the miscellaneous single-byte control opcodes.
// HALT and STOP both exit the block with pc pinned to their own address:
// the guest is stuck there until the runtime, watching for a pending
// interrupt or button-press event outside compiled code, moves pc forward
// itself.
func generateControl(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	switch inst.Cmd.Ctrl {
	case ir.CtrlNop:
	case ir.CtrlHalt, ir.CtrlStop:
		return EpilogueDescription{Repeat: true}
	case ir.CtrlCcf:
		loadHostFlags(a)
		a.Cmc()
		storeCcfScfFlags(a)
	case ir.CtrlScf:
		loadHostFlags(a)
		a.Stc()
		storeCcfScfFlags(a)
	case ir.CtrlDi:
		a.MovRegImm32(RegIE, 0)
		selectActiveDeadline(a)
	case ir.CtrlEi:
		// Real hardware delays the effect until after the following
		// instruction; compiled blocks enable it immediately, a known
		// simplification recorded alongside the rest of the interrupt model.
		a.MovRegImm32(RegIE, 1)
		selectActiveDeadline(a)
	}
	return EpilogueDescription{}
}

// storeCcfScfFlags caches Z and the (just flipped or set) C, clearing N/H.
func storeCcfScfFlags(a *amd.Assembler) {
	a.Lahf()
	a.AndR8Imm8(amd.AH, 0x41) // keep Z (bit 6) and C (bit 0)
	a.MovMem8R8(amd.RBP, slotFlags, amd.AH)
}
