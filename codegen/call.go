package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateCall lowers CALL/CALL cc: push the return address (this
// instruction's own address plus its length) and jump to the target
// address. The return address is computed from the live pc register rather
// than a compile-time constant, since the same generator body also runs
// inside a page-straddling one-off snippet, which has no compile-time pc of
// its own to work with — but does always have pc live in r13 at this point,
// the dispatcher having just jumped here because it matched.
func generateCall(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd
	size := uint32(inst.Size())

	pushReturnAddr := func() {
		a.MovRegReg(Scratch, RegPC)
		a.AndRegImm32(Scratch, 0xffff)
		a.AddRegImm32(Scratch, size)
		a.AndRegImm32(Scratch, 0xffff)
		pushWord16(a, ctx, Scratch)
	}

	target := JumpDescription{Kind: JumpStatic, Target: cmd.CallAddr}

	if cmd.Condition == ir.Always {
		pushReturnAddr()
		return EpilogueDescription{Jump: true, Target: target}
	}

	skip := a.NewLabel("call_skip")
	testCondition(a, invertCondition(cmd.Condition), skip)
	pushReturnAddr()
	return EpilogueDescription{Jump: true, Target: target, HasSkip: true, SkipLabel: skip}
}
