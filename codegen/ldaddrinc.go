package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateLdAddrInc lowers LD (HL+),A / LD A,(HL+) / LD (HL-),A / LD A,(HL-):
// a bus access through HL followed by an in-place increment or decrement of
// HL. cmd.Load selects direction (A <- (HL) vs (HL) <- A), cmd.Inc selects
// +1 vs -1.
func generateLdAddrInc(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd
	if cmd.Load {
		busRead(a, ctx, RegHL, RegA)
	} else {
		busWrite(a, ctx, RegHL, RegA)
	}
	if cmd.Inc {
		a.IncR16(RegHL)
	} else {
		a.DecR16(RegHL)
	}
	return EpilogueDescription{}
}
