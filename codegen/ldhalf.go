package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateLdHalf lowers every 8-bit load/store form: register-to-register,
// immediate, the four memory addressing modes, and the two high-page
// variants. At most one bus read or write is ever emitted, matching
// spec.md §4.2's "selects one of {register, immediate, absolute,
// register-indirect, high-page immediate, high-page register} for src and
// dst and emits at most one bus read and one bus write."
func generateLdHalf(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd
	loadHalfWord(a, ctx, cmd.Src, Scratch)
	storeHalfWord(a, ctx, cmd.Dst, Scratch)
	return EpilogueDescription{}
}
