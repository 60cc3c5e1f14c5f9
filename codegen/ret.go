package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateRet lowers RET/RET cc/RETI: pop the return address off the guest
// stack into pc (a dynamic target — the popped value is whatever the
// matching CALL/RST pushed, unknowable at codegen time), and for RETI, also
// re-enable the guest's master interrupt flag immediately (no EI-style
// one-instruction delay applies to RETI on real hardware).
func generateRet(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	cmd := inst.Cmd

	popReturnAddr := func() {
		popWord16(a, ctx, RegPC)
		if cmd.IntEnable {
			a.MovRegImm32(RegIE, 1)
			selectActiveDeadline(a)
		}
	}

	if cmd.Condition == ir.Always {
		popReturnAddr()
		return EpilogueDescription{Jump: true, Target: JumpDescription{Kind: JumpDynamic}}
	}

	skip := a.NewLabel("ret_skip")
	testCondition(a, invertCondition(cmd.Condition), skip)
	popReturnAddr()
	return EpilogueDescription{Jump: true, Target: JumpDescription{Kind: JumpDynamic}, HasSkip: true, SkipLabel: skip}
}
