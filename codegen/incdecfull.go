package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateIncDecFull lowers `INC rr`/`DEC rr`: no guest flags are affected.
func generateIncDecFull(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	reg := fullRegHost(inst.Cmd.FullReg)
	if inst.Cmd.IncDec {
		a.IncR16(reg)
	} else {
		a.DecR16(reg)
	}
	return EpilogueDescription{}
}
