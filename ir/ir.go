// Package ir defines the instruction intermediate representation that the
// decoder produces and the code generator consumes: every LR35902 opcode
// lowered to a closed set of commands, plus the Invalid sentinel for the
// eleven undefined opcodes.
package ir

// Reg names a 16-bit guest register pair.
type Reg int

const (
	AF Reg = iota
	BC
	DE
	HL
	SP
)

func (r Reg) String() string {
	switch r {
	case AF:
		return "AF"
	case BC:
		return "BC"
	case DE:
		return "DE"
	case HL:
		return "HL"
	case SP:
		return "SP"
	default:
		return "Reg(?)"
	}
}

// HalfReg names an 8-bit guest register.
type HalfReg int

const (
	A HalfReg = iota
	B
	C
	D
	E
	H
	L
)

func (r HalfReg) String() string {
	return "ABCDEHL"[r : r+1]
}

// HalfWordKind discriminates the addressable sources/destinations of an
// 8-bit load, mirroring the original compiler's HalfWordId enum.
type HalfWordKind int

const (
	HwRegVal      HalfWordKind = iota // a bare 8-bit register
	HwRegAddr                         // (BC)/(DE)/(HL): memory through a 16-bit register
	HwAddr                            // (nn): memory through a fixed 16-bit immediate address
	HwIoImmAddr                       // (FF00+n): high page through an 8-bit immediate offset
	HwIoRegAddr                       // (FF00+C): high page through register C
	HwImm                             // n: an 8-bit immediate value
)

// HalfWordID names one operand of an 8-bit load.
type HalfWordID struct {
	Kind HalfWordKind
	Reg  HalfReg // valid when Kind == HwRegVal or HwIoRegAddr
	Full Reg     // valid when Kind == HwRegAddr
	Addr uint16  // valid when Kind == HwAddr
	Imm  uint8   // valid when Kind == HwImm or HwIoImmAddr
}

// AluCommand names an 8-bit ALU opcode family.
type AluCommand int

const (
	AluAdd AluCommand = iota
	AluAdc
	AluSub
	AluSbc
	AluAnd
	AluXor
	AluOr
	AluCp
)

// Location names where an 8-bit read-modify-write operand lives: a register,
// or (HL).
type Location struct {
	IsMem bool
	Reg   HalfReg // valid when !IsMem
}

// AluOperandKind discriminates an ALU instruction's right-hand operand.
type AluOperandKind int

const (
	AluOperandLoc AluOperandKind = iota
	AluOperandImm
)

type AluOperand struct {
	Kind AluOperandKind
	Loc  Location
	Imm  uint8
}

// BitCommand names a CB-prefixed rotate/shift/swap/bit/set/res opcode.
type BitCommand int

const (
	BitRlc BitCommand = iota
	BitRl
	BitRrc
	BitRr
	BitSla
	BitSra
	BitSwap
	BitSrl
	BitBit
	BitSet
	BitRes
)

// ControlCommand names a miscellaneous single-byte control opcode.
type ControlCommand int

const (
	CtrlNop ControlCommand = iota
	CtrlHalt
	CtrlStop
	CtrlCcf
	CtrlScf
	CtrlDi
	CtrlEi
)

// Condition names a branch condition.
type Condition int

const (
	Always Condition = iota
	CondZ
	CondNZ
	CondC
	CondNC
)

// JumpTargetKind discriminates a control-transfer target.
type JumpTargetKind int

const (
	JumpAbsolute JumpTargetKind = iota
	JumpHL
	JumpRelative
)

type JumpTarget struct {
	Kind     JumpTargetKind
	Absolute uint16
	Relative int8
}

// Kind discriminates the Command sum type. Every LR35902 opcode decodes to
// exactly one Kind; KindInvalid covers the eleven undefined opcodes.
type Kind int

const (
	KindLdHalf Kind = iota
	KindLdAddrInc
	KindLdFullImm
	KindStoreSP
	KindPush
	KindPop
	KindAluHalf
	KindDaa
	KindCpl
	KindAddHL
	KindIncDecHalf
	KindIncDecFull
	KindAddSP
	KindHLSPOffset
	KindLdSPHL
	KindBitHalf
	KindRotateA
	KindControl
	KindJump
	KindCall
	KindRet
	KindRst
	KindInvalid

	// KindIncomplete marks a page-straddling instruction: the executor's
	// page decoder ran out of bytes before it could decode a full
	// instruction. Codegen never runs this through the ordinary generator
	// dispatch; CodegenBlock handles it inline as the one-off stub
	// (spec.md §4.2's "incomplete instructions" path), since it's the only
	// Kind that can ever be the last entry of a block's instruction list.
	KindIncomplete
)

// Command is the flattened Go rendering of the original compiler's Command
// enum: a discriminant plus the union of every variant's fields. Only the
// fields relevant to Kind are meaningful; codegen dispatches on Kind the
// same way the original dispatches on `match cmd`.
type Command struct {
	Kind Kind

	// KindLdHalf
	Src, Dst HalfWordID

	// KindLdAddrInc
	Inc, Load bool

	// KindLdFullImm, KindPush, KindPop, KindAddHL, KindIncDecFull
	FullReg Reg
	Imm16   uint16

	// KindStoreSP
	StoreAddr uint16

	// KindAluHalf
	Alu    AluCommand
	AluOp  AluOperand

	// KindIncDecHalf, KindBitHalf
	Loc Location
	IncDec bool // true = increment/set-style operation where applicable

	// KindAddSP, KindHLSPOffset
	Offset int8

	// KindBitHalf
	Bit     BitCommand
	BitNum  uint8

	// KindControl
	Ctrl ControlCommand

	// KindJump, KindCall
	Target    JumpTarget
	CallAddr  uint16
	Condition Condition

	// KindRet
	IntEnable bool

	// KindRst
	RstTarget uint8

	// KindInvalid
	InvalidByte byte

	// KindIncomplete
	IncompleteLeading   byte
	IncompleteTrailByte uint8 // 1 or 2: how many more bytes the real instruction needs
}

// Instruction is the immutable record the decoder produces: one guest
// opcode, its cycle cost(s), and the raw bytes it was decoded from.
type Instruction struct {
	Cmd Command

	// Cycles is the guest T-cycle cost. For conditional control transfers
	// this is the taken cost; AltCycles (valid when HasAltCycles) is the
	// not-taken cost.
	Cycles       uint8
	AltCycles    uint8
	HasAltCycles bool

	// Encoding holds the 1-3 raw bytes this instruction decoded from.
	Encoding [3]byte
	Len      uint8
}

// Size returns the number of bytes this instruction occupies in the guest
// instruction stream.
func (i Instruction) Size() uint16 { return uint16(i.Len) }

// Bytes returns the instruction's encoding as a slice.
func (i Instruction) Bytes() []byte { return i.Encoding[:i.Len] }

// Invalid builds the IR node for an undefined opcode byte b.
func Invalid(b byte) Instruction {
	return Instruction{
		Cmd:      Command{Kind: KindInvalid, InvalidByte: b},
		Cycles:   0,
		Encoding: [3]byte{b, 0, 0},
		Len:      1,
	}
}

// Incomplete builds the sentinel IR node for a leading byte whose
// instruction straddles a page boundary: trailBytes (1 or 2) is how many
// bytes follow the leading byte in the full instruction, at least one of
// them past the end of the current page. Len is 1 because only the leading
// byte is consumed from the current page; the rest is fetched through the
// bus at runtime by the one-off stub codegen emits for this Kind.
func Incomplete(leading byte, trailBytes uint8) Instruction {
	return Instruction{
		Cmd:      Command{Kind: KindIncomplete, IncompleteLeading: leading, IncompleteTrailByte: trailBytes},
		Cycles:   0,
		Encoding: [3]byte{leading, 0, 0},
		Len:      1,
	}
}
