package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateJump lowers JP/JP cc/JP (HL)/JR/JR cc. JP (HL) is the one
// dynamic case: its target is a runtime value, so the new pc is loaded into
// r13 directly and the epilogue is told to fall into the dispatcher rather
// than a direct native jump.
func generateJump(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd

	if cmd.Target.Kind == ir.JumpHL {
		a.MovR16R16(RegPC, RegHL)
		return EpilogueDescription{Jump: true, Target: JumpDescription{Kind: JumpDynamic}}
	}

	var target JumpDescription
	if cmd.Target.Kind == ir.JumpAbsolute {
		target = JumpDescription{Kind: JumpStatic, Target: cmd.Target.Absolute}
	} else {
		target = JumpDescription{Kind: JumpRelative, Relative: cmd.Target.Relative}
	}

	if cmd.Condition == ir.Always {
		return EpilogueDescription{Jump: true, Target: target}
	}

	skip := a.NewLabel("jp_skip")
	testCondition(a, invertCondition(cmd.Condition), skip)
	return EpilogueDescription{Jump: true, Target: target, HasSkip: true, SkipLabel: skip}
}
