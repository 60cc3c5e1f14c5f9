package codegen

import (
	"github.com/sean-purcell/gbjit/bus"
	"github.com/sean-purcell/gbjit/cpustate"
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// Host register pinning for guest CPU state, held for the duration of a
// compiled block (spec.md §4.2): bc/de/hl live in rbx/rcx/rdx, a lives in
// al (the low byte of rax, which also serves as the scratch return-value
// register for bus thunks), sp/pc live in the low words of r12/r13,
// intenable lives in the low byte of r11, r14 holds the pointer to the live
// cycle counter, r15 holds the pointer to the currently active deadline.
const (
	RegBC    = amd.RBX
	RegDE    = amd.RCX
	RegHL    = amd.RDX
	RegA     = amd.RAX // only the low byte (al) is the pinned guest A
	RegSP    = amd.R12
	RegPC    = amd.R13
	RegIE    = amd.R11
	RegCyc   = amd.R14 // pointer to the live cycle counter
	RegLim   = amd.R15 // pointer to the currently active deadline
	Scratch  = amd.R8
	Scratch2 = amd.R9
)

// Guest 8-bit register to host byte-register mapping. B/D/H share their
// host 64-bit register's high byte with C/E/L's low byte (bc/de/hl are each
// one pinned 16-bit host register), following spec.md §4.2 exactly.
var halfRegHost = [7]amd.Reg64{
	ir.A: amd.AL,
	ir.B: amd.BH,
	ir.C: amd.BL,
	ir.D: amd.CH,
	ir.E: amd.CL,
	ir.H: amd.DH,
	ir.L: amd.DL,
}

func hostByte(r ir.HalfReg) amd.Reg64 { return halfRegHost[r] }

// stack slot offsets relative to rbp inside a compiled block's 96-byte
// scratch frame (carved below the eight pinned-register pushes in
// generateBoilerplate). All hold pointers handed in at block entry, except
// slotFlags, which holds the one-byte LAHF-format guest flags cache
// spec.md §4.2 calls out living at a fixed stack slot.
const (
	scratchFrameSize     = 96
	slotCpuState         = -0x48 // *cpustate.CpuState, for repacking on exit
	slotBusCtx           = -0x50 // bus ctx handle (uintptr), reloaded before every bus call
	slotHardLimitPtr     = -0x58 // *uint64 hard deadline
	slotCombinedLimitPtr = -0x60 // *uint64 combined (hard, interrupt) deadline
	slotFlags            = -0x61 // 1 byte: LAHF-format flags, N bit repurposed into bit 5
	slotTemp16           = -0x64 // 2 bytes: scratch value that must outlive a bus call
)

// Context carries the host addresses compiled code calls into: the bus
// read/write thunks (obtained by gb.New via reflect.ValueOf(fn).
// Pointer() on the monomorphized trampolines bus.Erase mints), optionally a
// differential-trace logging thunk, and the one-off table resolver thunk
// (package oneoff's own Erase-style registry) incomplete instructions call
// into.
type Context struct {
	ReadAddr  uint64
	WriteAddr uint64
	TraceAddr uint64

	OneoffResolveAddr uint64
	OneoffCtx         uintptr
}

// EpilogueDescription tells generateEpilogue how to end an instruction's
// code: fall through to the next PC at the default cost, or jump
// (statically, relatively, or dynamically) possibly with a not-taken arm
// at a lower cost.
type EpilogueDescription struct {
	Jump      bool
	Target    JumpDescription
	HasSkip   bool
	SkipLabel string

	// Repeat forces an exit with pc reset to this instruction's own address
	// instead of advancing past it — HALT/STOP's "the guest is stuck here
	// until something outside compiled code wakes it up" behavior.
	Repeat bool
}

// JumpDescription names a control-transfer target at codegen time.
type JumpDescription struct {
	Kind     JumpKind
	Target   uint16
	Relative int8
}

type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpStatic
	JumpRelative
	JumpDynamic // target already loaded into r13w (pc) by the generator
)

// Generator lowers one instruction's ir.Command into machine code appended
// to a, returning how its control flow should be closed out.
type Generator func(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription

// unpackCPUState emits the block prologue's load of CpuState fields into
// their pinned host registers, converting the stored guest F byte into the
// LAHF-format flags cache.
func unpackCPUState(a *amd.Assembler, cpuStatePtr amd.Reg64) {
	a.MovR16Mem(RegSP, cpuStatePtr, 0)
	a.MovR16Mem(RegPC, cpuStatePtr, 2)
	a.MovzxR32Mem8(RegA, cpuStatePtr, 4)
	a.MovzxR32Mem8(Scratch, cpuStatePtr, 5)
	deconstructAF(a, Scratch)
	a.MovR16Mem(RegBC, cpuStatePtr, 6)
	a.MovR16Mem(RegDE, cpuStatePtr, 8)
	a.MovR16Mem(RegHL, cpuStatePtr, 10)
	a.MovzxR32Mem8(RegIE, cpuStatePtr, 12)
}

// repackCPUState is the epilogue's inverse of unpackCPUState.
func repackCPUState(a *amd.Assembler, cpuStatePtr amd.Reg64) {
	materializeAF(a, Scratch)
	a.ShlRegImm8(Scratch, 8)
	a.MovzxR32R8(Scratch2, RegA)
	a.OrRegReg(Scratch, Scratch2)
	a.MovMemR16(cpuStatePtr, 4, Scratch)
	a.MovMemR16(cpuStatePtr, 0, RegSP)
	a.MovMemR16(cpuStatePtr, 2, RegPC)
	a.MovMemR16(cpuStatePtr, 6, RegBC)
	a.MovMemR16(cpuStatePtr, 8, RegDE)
	a.MovMemR16(cpuStatePtr, 10, RegHL)
	a.MovMem8R8(cpuStatePtr, 12, RegIE)
}

// materializeAF converts the stored LAHF-format flags byte ([rbp+slotFlags])
// into the guest F register's bit layout (Z=7, N=6, H=5, C=4), leaving the
// result in dst's low byte. Destroys Scratch2.
//
// The stored byte packs Z into bit 6 (the host ZF, set by lahf), H into bit
// 4 (the host AF — real hardware's auxiliary-carry flag lines up exactly
// with the GB's half-carry between bits 3/4), C into bit 0 (host CF), and
// the synthetic N flag into bit 5 (a bit LAHF always clears and SAHF never
// reads, repurposed since there is no host flag for "subtract occurred").
func materializeAF(a *amd.Assembler, dst amd.Reg64) {
	a.MovzxR32Mem8(dst, amd.RBP, slotFlags)
	a.MovRegReg(Scratch2, dst)
	a.AndRegImm32(dst, 0x70)
	a.ShlRegImm8(dst, 1)
	a.AndRegImm32(Scratch2, 0x01)
	a.ShlRegImm8(Scratch2, 4)
	a.OrRegReg(dst, Scratch2)
}

// deconstructAF is materializeAF's inverse: given a register holding a
// guest F byte in its low 8 bits (destroyed), stores the LAHF-format
// encoding to the flags slot. Destroys Scratch2. Used at block entry (the
// incoming CpuState's F may have come from anywhere, including a guest POP
// AF) and by POP AF itself.
func deconstructAF(a *amd.Assembler, guestF amd.Reg64) {
	a.MovRegReg(Scratch2, guestF)
	a.AndRegImm32(guestF, 0xE0)
	a.ShrRegImm8(guestF, 1)
	a.AndRegImm32(Scratch2, 0x10)
	a.ShrRegImm8(Scratch2, 4)
	a.OrRegReg(guestF, Scratch2)
	a.MovMem8R8(amd.RBP, slotFlags, guestF)
}

// storeFlags caches the host flags just set by an ALU op into the flags
// slot, ORing in (or clearing) the synthetic N bit per spec.md §4.2's "for
// SUB/SBC/CP set the guest N flag bit by OR-ing into the stored byte".
func storeFlags(a *amd.Assembler, subtractive bool) {
	a.Lahf()
	if subtractive {
		a.OrR8Imm8(amd.AH, 0x20)
	} else {
		a.AndR8Imm8(amd.AH, 0xDF)
	}
	a.MovMem8R8(amd.RBP, slotFlags, amd.AH)
}

// storeLogicFlags caches flags for AND/OR/XOR: Z and C come straight out of
// lahf (x86 guarantees CF cleared by all three), N is always cleared, and H
// is forced rather than trusted, since the host's AF is documented as
// undefined after a logical instruction — GB defines it as 1 for AND, 0 for
// OR/XOR.
func storeLogicFlags(a *amd.Assembler, forceH bool) {
	a.Lahf()
	a.AndR8Imm8(amd.AH, 0xCF) // clear N (bit 5) and H (bit 4); keep Z (bit 6), C (bit 0)
	if forceH {
		a.OrR8Imm8(amd.AH, 0x10)
	}
	a.MovMem8R8(amd.RBP, slotFlags, amd.AH)
}

// loadHostFlags reloads the host EFLAGS from the cached flags slot, for
// operations that read a flag: ADC/SBC's carry-in, INC/DEC's "preserve C"
// merge, and conditional branches/returns testing Z or C. sahf only reads
// ah, but getting the flags byte into ah means a 32-bit zero-extending load
// into eax, which would stomp al (guest A) — so al is saved in Scratch and
// restored once eflags has latched the value out of ah.
func loadHostFlags(a *amd.Assembler) {
	a.MovRegReg(Scratch, RegA)
	a.AndRegImm32(Scratch, 0xff)
	a.MovzxR32Mem8(amd.RAX, amd.RBP, slotFlags)
	a.Sahf()
	a.MovRegReg(RegA, Scratch)
}

// testCondition emits a conditional jump to label if cond holds, using the
// cached flags slot. cond must not be ir.Always (callers special-case that
// as an unconditional jump).
func testCondition(a *amd.Assembler, cond ir.Condition, label string) {
	loadHostFlags(a)
	switch cond {
	case ir.CondZ:
		a.JccLabel(amd.CondE, label)
	case ir.CondNZ:
		a.JccLabel(amd.CondNE, label)
	case ir.CondC:
		a.JccLabel(amd.CondB, label)
	case ir.CondNC:
		a.JccLabel(amd.CondAE, label)
	}
}

// invertCondition returns cond's complement, for branch families (JP/CALL/
// RET) that need to skip their taken-path code when the guest condition does
// NOT hold.
func invertCondition(cond ir.Condition) ir.Condition {
	switch cond {
	case ir.CondZ:
		return ir.CondNZ
	case ir.CondNZ:
		return ir.CondZ
	case ir.CondC:
		return ir.CondNC
	case ir.CondNC:
		return ir.CondC
	default:
		return ir.Always
	}
}

// checkCycleLimit emits the deadline check every instruction epilogue runs:
// if the cycle counter has reached the active deadline, exit the block.
func checkCycleLimit(a *amd.Assembler, exitLabel string) {
	a.MovRegMem(Scratch, RegCyc, 0)
	a.MovRegMem(Scratch2, RegLim, 0)
	a.CmpRegReg(Scratch, Scratch2)
	a.JccLabel(amd.CondAE, exitLabel)
}

// savePinnedVolatile preserves the pinned registers that the System V ABI
// treats as caller-saved (de/hl in rcx/rdx and intenable in r11; bc in rbx
// and sp/pc/cycle/limit in r12-r15 are callee-saved and survive calls) across
// a bus callback, so the callee's register usage can never corrupt guest
// state still live in a pinned register.
func savePinnedVolatile(a *amd.Assembler) {
	a.Push(RegDE)
	a.Push(RegHL)
	a.Push(RegIE)
}

func restorePinnedVolatile(a *amd.Assembler) {
	a.Pop(RegIE)
	a.Pop(RegHL)
	a.Pop(RegDE)
}

// busRead emits a call to the bus read thunk and leaves the result in dst's
// low byte. addrReg holds the 16-bit guest address (upper bits are masked
// off before the call; addr is a uint16 on the other side of the ABI). The
// callback's return value always arrives in al, which also happens to be
// the pinned guest A register: when dst isn't RegA, the live guest A value
// is pushed before the call and popped back after, so a read that targets
// any other destination never disturbs A.
func busRead(a *amd.Assembler, ctx *Context, addrReg, dst amd.Reg64) {
	preserveA := dst != RegA
	if preserveA {
		a.Push(RegA)
	}
	savePinnedVolatile(a)
	a.MovRegReg(amd.RDI, addrReg)
	a.AndRegImm32(amd.RDI, 0xffff)
	a.MovRegMem(amd.RSI, amd.RBP, slotBusCtx)
	a.CallAbs(Scratch2, ctx.ReadAddr)
	restorePinnedVolatile(a)
	if preserveA {
		a.MovRegReg(dst, RegA)
		a.Pop(RegA)
	}
}

// busWrite emits a call to the bus write thunk. The live guest A value is
// preserved across the call regardless of whether valReg aliases RegA,
// since the callback is free to clobber rax internally.
func busWrite(a *amd.Assembler, ctx *Context, addrReg, valReg amd.Reg64) {
	a.Push(RegA)
	savePinnedVolatile(a)
	a.MovRegReg(amd.RDI, addrReg)
	a.AndRegImm32(amd.RDI, 0xffff)
	a.MovRegReg(amd.RSI, valReg)
	a.MovRegMem(amd.RDX, amd.RBP, slotBusCtx)
	a.CallAbs(Scratch2, ctx.WriteAddr)
	restorePinnedVolatile(a)
	a.Pop(RegA)
}

// loadHalfWord reads the 8-bit value named by id into dst's low byte.
func loadHalfWord(a *amd.Assembler, ctx *Context, id ir.HalfWordID, dst amd.Reg64) {
	switch id.Kind {
	case ir.HwRegVal:
		a.MovR8R8(dst, hostByte(id.Reg))
	case ir.HwImm:
		a.MovR8Imm8(dst, id.Imm)
	case ir.HwRegAddr:
		busRead(a, ctx, fullRegHost(id.Full), dst)
	case ir.HwAddr:
		a.MovRegImm32(Scratch, uint32(id.Addr))
		busRead(a, ctx, Scratch, dst)
	case ir.HwIoImmAddr:
		a.MovRegImm32(Scratch, 0xFF00|uint32(id.Imm))
		busRead(a, ctx, Scratch, dst)
	case ir.HwIoRegAddr:
		a.MovzxR32R8(Scratch, hostByte(id.Reg))
		a.OrRegImm32(Scratch, 0xFF00)
		busRead(a, ctx, Scratch, dst)
	}
}

// storeHalfWord writes src's low byte to the 8-bit location named by id.
// Memory forms build the address in Scratch2, so src must not be Scratch2.
func storeHalfWord(a *amd.Assembler, ctx *Context, id ir.HalfWordID, src amd.Reg64) {
	switch id.Kind {
	case ir.HwRegVal:
		a.MovR8R8(hostByte(id.Reg), src)
	case ir.HwRegAddr:
		busWrite(a, ctx, fullRegHost(id.Full), src)
	case ir.HwAddr:
		a.MovRegImm32(Scratch2, uint32(id.Addr))
		busWrite(a, ctx, Scratch2, src)
	case ir.HwIoImmAddr:
		a.MovRegImm32(Scratch2, 0xFF00|uint32(id.Imm))
		busWrite(a, ctx, Scratch2, src)
	case ir.HwIoRegAddr:
		a.MovzxR32R8(Scratch2, hostByte(id.Reg))
		a.OrRegImm32(Scratch2, 0xFF00)
		busWrite(a, ctx, Scratch2, src)
	}
}

// fullRegHost maps a 16-bit guest register to its pinned host register.
func fullRegHost(r ir.Reg) amd.Reg64 {
	switch r {
	case ir.BC:
		return RegBC
	case ir.DE:
		return RegDE
	case ir.HL:
		return RegHL
	case ir.SP:
		return RegSP
	case ir.AF:
		return RegA // only ever used for the 16-bit view in push/pop AF, handled specially there
	default:
		return RegHL
	}
}

// loadLocation reads an ir.Location (a register or (HL)) into dst's low
// byte, used by the read-modify-write families (INC/DEC half, bit ops).
func loadLocation(a *amd.Assembler, ctx *Context, loc ir.Location, dst amd.Reg64) {
	if loc.IsMem {
		busRead(a, ctx, RegHL, dst)
		return
	}
	a.MovR8R8(dst, hostByte(loc.Reg))
}

// storeLocation writes src's low byte back to loc.
func storeLocation(a *amd.Assembler, ctx *Context, loc ir.Location, src amd.Reg64) {
	if loc.IsMem {
		busWrite(a, ctx, RegHL, src)
		return
	}
	a.MovR8R8(hostByte(loc.Reg), src)
}

// pushWord16 decrements sp by 2 and writes val's low 16 bits to the guest
// stack, high byte first (matching PUSH's byte order). val is stashed in
// the scratch stack slot first and reloaded from there for each byte: a bus
// callback is free to clobber any register that isn't one of the pinned
// guest-state registers busWrite explicitly saves, Scratch included.
func pushWord16(a *amd.Assembler, ctx *Context, val amd.Reg64) {
	a.MovMemR16(amd.RBP, slotTemp16, val)

	a.SubRegImm32(RegSP, 2)
	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	a.AddRegImm32(Scratch2, 1)
	a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
	a.AndRegImm32(Scratch, 0xffff)
	a.ShrRegImm8(Scratch, 8)
	busWrite(a, ctx, Scratch2, Scratch)

	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
	a.AndRegImm32(Scratch, 0xff)
	busWrite(a, ctx, Scratch2, Scratch)
}

// popWord16 reads a 16-bit value off the guest stack into dst (low byte at
// sp, high byte at sp+1, PUSH's inverse) and advances sp by 2. dst must not
// be Scratch or Scratch2.
func popWord16(a *amd.Assembler, ctx *Context, dst amd.Reg64) {
	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	busRead(a, ctx, Scratch2, Scratch)
	a.AndRegImm32(Scratch, 0xff)
	a.MovMemR16(amd.RBP, slotTemp16, Scratch) // lo byte stashed past the next bus call

	a.MovRegReg(Scratch2, RegSP)
	a.AndRegImm32(Scratch2, 0xffff)
	a.AddRegImm32(Scratch2, 1)
	busRead(a, ctx, Scratch2, Scratch2) // hi byte -> Scratch2, addr no longer needed
	a.AndRegImm32(Scratch2, 0xff)
	a.ShlRegImm8(Scratch2, 8)

	a.MovR16Mem(Scratch, amd.RBP, slotTemp16)
	a.AndRegImm32(Scratch, 0xffff)
	a.OrRegReg(Scratch2, Scratch)
	a.MovR16R16(dst, Scratch2)
	a.AddRegImm32(RegSP, 2)
}

var _ bus.RawFuncs // referenced for documentation of the ABI shape only
var _ cpustate.CpuState
