package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateIncDecHalf lowers `INC r`/`DEC r`/`INC (HL)`/`DEC (HL)`. Host
// inc/dec never touch CF, matching the guest's "C unaffected" rule, so the
// cached carry is seeded into eflags right before the inc/dec (after the
// (HL) bus read, which would clobber eflags) and simply rides through.
func generateIncDecHalf(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd

	if cmd.Loc.IsMem {
		loadLocation(a, ctx, cmd.Loc, Scratch2) // Scratch2: loadHostFlags uses Scratch
		loadHostFlags(a)
		if cmd.IncDec {
			a.IncR8(Scratch2)
		} else {
			a.DecR8(Scratch2)
		}
		storeFlags(a, !cmd.IncDec)
		storeLocation(a, ctx, cmd.Loc, Scratch2)
		return EpilogueDescription{}
	}

	loadHostFlags(a)
	reg := hostByte(cmd.Loc.Reg)
	if cmd.IncDec {
		a.IncR8(reg)
	} else {
		a.DecR8(reg)
	}
	storeFlags(a, !cmd.IncDec)
	return EpilogueDescription{}
}
