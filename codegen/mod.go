// Package codegen lowers ir.Instruction sequences into executable x86-64
// machine code: a dispatch table from ir.Kind to a per-family generator (one
// file per family, mirroring the original compiler's module split), a
// shared prologue/epilogue, a dynamic-jump dispatcher for in-block dynamic
// targets, and optional per-instruction tracing.
package codegen

import (
	"fmt"

	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// Options mirrors the process-wide configuration flags spec.md §6 names.
type Options struct {
	TracePC            bool
	StdLogging         bool
	DisassemblyLogfile string
}

// CompileError wraps an assembly-time failure: out-of-memory in the code
// buffer or an unresolved label. It is the only error codegen ever returns;
// invalid opcodes are handled as data (an IR node whose compiled body falls
// through to the next instruction and logs nothing itself), not as compile
// errors, matching spec.md §7.
type CompileError struct {
	Stage string
	Err   error
}

func (e *CompileError) Error() string { return fmt.Sprintf("codegen: %s: %v", e.Stage, e.Err) }
func (e *CompileError) Unwrap() error { return e.Err }

// dispatch maps every ir.Kind to the generator that lowers it. KindInvalid
// routes to generateInvalid.
var dispatch = map[ir.Kind]Generator{
	ir.KindLdHalf:     generateLdHalf,
	ir.KindLdAddrInc:  generateLdAddrInc,
	ir.KindLdFullImm:  generateLdFullImm,
	ir.KindStoreSP:    generateStoreSP,
	ir.KindPush:       generatePush,
	ir.KindPop:        generatePop,
	ir.KindAluHalf:    generateAluHalf,
	ir.KindDaa:        generateDaa,
	ir.KindCpl:        generateCpl,
	ir.KindAddHL:      generateAddHL,
	ir.KindIncDecHalf: generateIncDecHalf,
	ir.KindIncDecFull: generateIncDecFull,
	ir.KindAddSP:      generateAddSP,
	ir.KindHLSPOffset: generateHLSPOffset,
	ir.KindLdSPHL:     generateLdSPHL,
	ir.KindBitHalf:    generateBitHalf,
	ir.KindRotateA:    generateRotateA,
	ir.KindControl:    generateControl,
	ir.KindJump:       generateJump,
	ir.KindCall:       generateCall,
	ir.KindRet:        generateRet,
	ir.KindRst:        generateRst,
}

func generatorFor(k ir.Kind) Generator {
	if g, ok := dispatch[k]; ok {
		return g
	}
	return generateInvalid
}

// Block is the result of compiling one page's worth of instructions: the
// assembled code, the entry offset, and one offset per instruction (used by
// block.Disassemble to split the host code by guest instruction; a dynamic
// jump that lands inside the block re-enters through its dispatcher).
type Block struct {
	Code        []byte
	EntryOffset int
	InstOffsets []int
}

// CodegenBlock lowers insts (already decoded starting at baseAddr) into a
// Block. Every instruction gets its own label so the dynamic-jump dispatcher
// can resolve an arbitrary in-range target to the right offset, and static
// intra-block jump/call targets are resolved to direct native jumps at
// codegen time (RET's target is dynamic and goes through the dispatcher).
func CodegenBlock(baseAddr uint16, insts []ir.Instruction, ctx *Context, opts Options) (*Block, error) {
	a := amd.New()

	labels := make([]string, len(insts))
	pcToLabel := make(map[uint16]string, len(insts))
	labelPCs := make([]labelPC, len(insts))
	pc := baseAddr
	for i, inst := range insts {
		labels[i] = fmt.Sprintf("inst_%d", i)
		pcToLabel[pc] = labels[i]
		labelPCs[i] = labelPC{PC: pc, Label: labels[i]}
		pc += inst.Size()
	}

	entry := generateBoilerplate(a)
	generateDispatcher(a, baseAddr, pc, labelPCs)

	offsets := make([]int, len(insts))
	pc = baseAddr
	for i, inst := range insts {
		offsets[i] = a.Offset()
		a.Label(labels[i])

		if opts.TracePC && ctx.TraceAddr != 0 {
			emitTrace(a, ctx, pc)
		}

		if inst.Cmd.Kind == ir.KindIncomplete {
			generateIncompleteStub(a, inst, pc, ctx)
			pc += inst.Size()
			continue
		}

		gen := generatorFor(inst.Cmd.Kind)
		desc := gen(a, inst, ctx)
		generateEpilogue(a, desc, inst, pc, pcToLabel)
		pc += inst.Size()
	}

	a.Label("exit")
	generateEpilogueTail(a)

	if err := a.Resolve(); err != nil {
		return nil, &CompileError{Stage: "resolve", Err: err}
	}

	return &Block{Code: a.Code, EntryOffset: entry, InstOffsets: offsets}, nil
}

// CodegenOneoffs compiles the 256-entry (or 65536-entry) subtable for every
// possible continuation of one leading byte, used when a block's tail
// straddles a page boundary (spec.md §3's OneoffTable). Each entry is a
// self-contained callable snippet: it assumes the guest registers are
// already live in their pinned hosts (the incomplete-instruction stub that
// calls into it runs inside an already-entered block) and returns to its
// caller via `ret` rather than falling into a dispatcher.
func CodegenOneoffs(insts []ir.Instruction, ctx *Context) (*Block, error) {
	a := amd.New()
	offsets := make([]int, len(insts))
	for i, inst := range insts {
		offsets[i] = a.Offset()
		gen := generatorFor(inst.Cmd.Kind)
		desc := gen(a, inst, ctx)
		generateOneoffEpilogue(a, desc, inst)
	}
	if err := a.Resolve(); err != nil {
		return nil, &CompileError{Stage: "resolve-oneoff", Err: err}
	}
	return &Block{Code: a.Code, InstOffsets: offsets}, nil
}

// generateBoilerplate emits the block prologue: save callee-facing host
// registers, carve the scratch frame, stash the incoming pointers, unpack
// CpuState, and select the initially active deadline.
func generateBoilerplate(a *amd.Assembler) int {
	offset := a.Offset()
	a.Push(amd.RBP)
	a.MovRegReg(amd.RBP, amd.RSP)
	a.Push(RegBC)
	a.Push(RegDE)
	a.Push(RegHL)
	a.Push(RegSP)
	a.Push(RegPC)
	a.Push(RegIE)
	a.Push(RegCyc)
	a.Push(RegLim)
	a.SubRegImm32(amd.RSP, scratchFrameSize)

	// entry(cpu_state *CpuState, bus_ctx uintptr, cycle_state *RawCycleState)
	// arrives in rdi, rsi, rdx per spec.md §6's block entry ABI.
	a.MovMemReg(amd.RBP, slotCpuState, amd.RDI)
	a.MovMemReg(amd.RBP, slotBusCtx, amd.RSI)
	a.MovRegMem(RegCyc, amd.RDX, 0)
	a.MovRegMem(Scratch, amd.RDX, 8)
	a.MovMemReg(amd.RBP, slotHardLimitPtr, Scratch)
	a.MovRegMem(Scratch, amd.RDX, 16)
	a.MovMemReg(amd.RBP, slotCombinedLimitPtr, Scratch)

	unpackCPUState(a, amd.RDI)
	selectActiveDeadline(a)

	a.JmpLabel("dispatch")
	return offset
}

// selectActiveDeadline loads r15 with the hard-limit pointer when guest
// interrupts are disabled, or the combined (hard, interrupt) limit pointer
// when they're enabled — spec.md §4.2's "two deadlines ... which one is
// active is determined by the guest's master interrupt enable".
func selectActiveDeadline(a *amd.Assembler) {
	skip := a.NewLabel("select_limit")
	a.MovRegMem(RegLim, amd.RBP, slotHardLimitPtr)
	a.CmpRegImm32(RegIE, 0)
	a.JccLabel(amd.CondE, skip)
	a.MovRegMem(RegLim, amd.RBP, slotCombinedLimitPtr)
	a.Label(skip)
}

func generateEpilogueTail(a *amd.Assembler) {
	a.MovRegMem(amd.RDI, amd.RBP, slotCpuState)
	repackCPUState(a, amd.RDI)
	a.AddRegImm32(amd.RSP, scratchFrameSize)
	a.Pop(RegLim)
	a.Pop(RegCyc)
	a.Pop(RegIE)
	a.Pop(RegPC)
	a.Pop(RegSP)
	a.Pop(RegHL)
	a.Pop(RegDE)
	a.Pop(RegBC)
	a.Pop(amd.RBP)
	a.Ret()
}

// labelPC pairs a compiled instruction's guest address with its native
// label, the dispatcher's lookup table.
type labelPC struct {
	PC    uint16
	Label string
}

// generateDispatcher is the block's re-entry point after every dynamic
// jump and at block start: it range-checks the live pc against
// [baseAddr, endAddr) and, if in range, compares it against each
// instruction's starting address in turn, jumping to the first match.
// Anything out of range (including a dynamic target that lands mid-way
// through a multi-byte instruction, which never appears in labelPCs) exits
// the block so the executor can resolve the page that actually contains pc.
func generateDispatcher(a *amd.Assembler, baseAddr, endAddr uint16, labelPCs []labelPC) {
	a.Label("dispatch")
	a.MovRegReg(Scratch, RegPC)
	a.AndRegImm32(Scratch, 0xffff)
	a.CmpRegImm32(Scratch, uint32(baseAddr))
	a.JccLabel(amd.CondB, "exit")
	a.CmpRegImm32(Scratch, uint32(endAddr))
	a.JccLabel(amd.CondAE, "exit")
	for _, lp := range labelPCs {
		a.CmpRegImm32(Scratch, uint32(lp.PC))
		a.JccLabel(amd.CondE, lp.Label)
	}
	a.JmpLabel("exit")
}

func generateEpilogue(a *amd.Assembler, desc EpilogueDescription, inst ir.Instruction, pc uint16, pcToLabel map[uint16]string) {
	cost := func(cycles uint8) {
		a.MovRegMem(Scratch, RegCyc, 0)
		a.AddRegImm32(Scratch, uint32(cycles))
		a.MovMemReg(RegCyc, 0, Scratch)
		checkCycleLimit(a, "exit")
	}

	if desc.Repeat {
		a.MovR16Imm16(RegPC, pc)
		cost(inst.Cycles)
		a.JmpLabel("exit")
		return
	}

	if !desc.Jump {
		a.MovR16Imm16(RegPC, pc+inst.Size())
		cost(inst.Cycles)
		return
	}

	switch desc.Target.Kind {
	case JumpStatic, JumpRelative:
		var target uint16
		if desc.Target.Kind == JumpStatic {
			target = desc.Target.Target
		} else {
			target = uint16(int32(pc) + int32(inst.Size()) + int32(desc.Target.Relative))
		}
		a.MovR16Imm16(RegPC, target)
		cost(inst.Cycles)
		if label, ok := pcToLabel[target]; ok {
			a.JmpLabel(label)
		} else {
			a.JmpLabel("dispatch")
		}
	case JumpDynamic:
		cost(inst.Cycles)
		a.JmpLabel("dispatch")
	}

	if desc.HasSkip {
		a.Label(desc.SkipLabel)
		a.MovR16Imm16(RegPC, pc+inst.Size())
		cost(inst.AltCycles)
	}
}

func generateOneoffEpilogue(a *amd.Assembler, desc EpilogueDescription, inst ir.Instruction) {
	cost := func(cycles uint8) {
		a.MovRegMem(Scratch, RegCyc, 0)
		a.AddRegImm32(Scratch, uint32(cycles))
		a.MovMemReg(RegCyc, 0, Scratch)
	}
	// A one-off snippet never knows its own pc at compile time, so pc is
	// advanced relative to the live r13 (the instruction's own address).
	size := uint32(inst.Size())
	switch {
	case !desc.Jump:
		if !desc.Repeat {
			a.AddRegImm32(RegPC, size)
		}
	case desc.Target.Kind == JumpStatic:
		a.MovR16Imm16(RegPC, desc.Target.Target)
	case desc.Target.Kind == JumpRelative:
		a.AddRegImm32(RegPC, uint32(int32(size)+int32(desc.Target.Relative)))
	}
	cost(inst.Cycles)
	if desc.HasSkip {
		skip := desc.SkipLabel
		after := a.NewLabel("oneoff_done")
		a.JmpLabel(after)
		a.Label(skip)
		a.AddRegImm32(RegPC, size)
		cost(inst.AltCycles)
		a.Label(after)
	}
	a.Ret()
}

func emitTrace(a *amd.Assembler, ctx *Context, pc uint16) {
	savePinnedVolatile(a)
	a.Push(amd.RAX)
	a.MovRegMem(amd.RDI, amd.RBP, slotCpuState)
	repackCPUState(a, amd.RDI)
	a.MovRegImm32(amd.RSI, uint32(pc))
	a.CallAbs(Scratch2, ctx.TraceAddr)
	a.Pop(amd.RAX)
	restorePinnedVolatile(a)
}
