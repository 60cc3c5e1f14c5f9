package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateIncompleteStub emits the one-off path spec.md §4.2 describes for
// an instruction whose bytes straddle a page boundary: fetch the missing
// trailing byte(s) through the bus (their address is a compile-time
// constant — pc+1[, pc+2] — even though their value isn't), resolve the
// matching pre-compiled OneoffTable snippet at runtime, and call into it.
// Unlike every other generator this is invoked directly from CodegenBlock's
// instruction loop rather than through the Kind dispatch table, since it's
// the only Kind whose codegen needs the enclosing block's pc (CodegenOneoffs
// never contains one — an incomplete instruction can only be the last entry
// of a page-straddling block).
func generateIncompleteStub(a *amd.Assembler, inst ir.Instruction, pc uint16, ctx *Context) {
	leading := inst.Cmd.IncompleteLeading
	trailBytes := inst.Cmd.IncompleteTrailByte

	a.MovRegImm32(Scratch, uint32(pc)+1)
	busRead(a, ctx, Scratch, Scratch2)
	a.AndRegImm32(Scratch2, 0xff)
	if trailBytes == 2 {
		a.MovMemR16(amd.RBP, slotTemp16, Scratch2) // first byte stashed past the next bus call
		a.MovRegImm32(Scratch, uint32(pc)+2)
		busRead(a, ctx, Scratch, Scratch)
		a.AndRegImm32(Scratch, 0xff)
		a.ShlRegImm8(Scratch, 8)
		a.MovR16Mem(Scratch2, amd.RBP, slotTemp16)
		a.AndRegImm32(Scratch2, 0xff)
		a.OrRegReg(Scratch2, Scratch)
	}

	// resolve(leading uint16, trailing uint16, ctx uintptr) uint64, SysV
	// args in rdi/rsi/rdx, result in rax.
	a.Push(RegA)
	savePinnedVolatile(a)
	a.MovRegImm32(amd.RDI, uint32(leading))
	a.MovRegReg(amd.RSI, Scratch2)
	a.MovRegImm64(amd.RDX, uint64(ctx.OneoffCtx))
	a.CallAbs(Scratch, ctx.OneoffResolveAddr)
	a.MovRegReg(Scratch, amd.RAX)
	restorePinnedVolatile(a)
	a.Pop(RegA)

	a.CallReg(Scratch)

	// The snippet already advanced pc and the cycle counter (see
	// generateOneoffEpilogue); all that's left is the usual deadline check
	// before handing control back to the dispatcher, which re-resolves pc
	// against this block's instruction labels (almost always a miss, since
	// an incomplete instruction is always the last one in its block, but
	// a relative jump one-off could in principle land back inside it).
	checkCycleLimit(a, "exit")
	a.JmpLabel("dispatch")
}
