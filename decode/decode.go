package decode

import (
	"github.com/sean-purcell/gbjit/ir"
	"github.com/sean-purcell/gbjit/mask"
)

// regOrder is the standard LR35902 3-bit register field ordering used by
// LD r,r', the ALU block, and INC/DEC r. Index 6 is the (HL) pseudo-register.
var regOrder = [8]ir.HalfReg{ir.B, ir.C, ir.D, ir.E, ir.H, ir.L, 0, ir.A}

var fullRegOrderSP = [4]ir.Reg{ir.BC, ir.DE, ir.HL, ir.SP}
var fullRegOrderAF = [4]ir.Reg{ir.BC, ir.DE, ir.HL, ir.AF}

var aluOrder = [8]ir.AluCommand{
	ir.AluAdd, ir.AluAdc, ir.AluSub, ir.AluSbc, ir.AluAnd, ir.AluXor, ir.AluOr, ir.AluCp,
}

var condOrder = [4]ir.Condition{ir.CondNZ, ir.CondZ, ir.CondNC, ir.CondC}

func halfWordOfField(field byte) ir.HalfWordID {
	if field == 6 {
		return ir.HalfWordID{Kind: ir.HwRegAddr, Full: ir.HL}
	}
	return ir.HalfWordID{Kind: ir.HwRegVal, Reg: regOrder[field]}
}

func locOfField(field byte) ir.Location {
	if field == 6 {
		return ir.Location{IsMem: true}
	}
	return ir.Location{IsMem: false, Reg: regOrder[field]}
}

func u16le(lo, hi byte) uint16 { return uint16(lo) | uint16(hi)<<8 }

// Decode decodes the instruction beginning at bytes[0]. bytes must contain at
// least StreamLen(bytes[0]) bytes (BytesRequired reports 0 for an invalid
// opcode, which still occupies 1 byte of stream space, and 1 for the 0xCB
// prefix, which occupies 2). The CB prefix (0xCB) is handled by decodeCB.
func Decode(bytes []byte) ir.Instruction {
	b := bytes[0]
	if b == 0xCB {
		return decodeCB(bytes[1])
	}
	if IsInvalid(b) {
		return ir.Invalid(b)
	}

	n := BytesRequired(b)
	inst := ir.Instruction{Len: n}
	copy(inst.Encoding[:], bytes[:n])

	hi := mask.Range(b, mask.I1, mask.I2)
	mid := mask.Range(b, mask.I3, mask.I5)
	lo := mask.Range(b, mask.I6, mask.I8)

	switch {
	case b == 0x00:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlNop}
	case b == 0x10:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlStop}
	case b == 0x76:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlHalt}
	case b == 0x3F:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlCcf}
	case b == 0x37:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlScf}
	case b == 0xF3:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlDi}
	case b == 0xFB:
		inst.Cmd = ir.Command{Kind: ir.KindControl, Ctrl: ir.CtrlEi}
	case b == 0x07:
		inst.Cmd = ir.Command{Kind: ir.KindRotateA, Bit: ir.BitRlc}
	case b == 0x0F:
		inst.Cmd = ir.Command{Kind: ir.KindRotateA, Bit: ir.BitRrc}
	case b == 0x17:
		inst.Cmd = ir.Command{Kind: ir.KindRotateA, Bit: ir.BitRl}
	case b == 0x1F:
		inst.Cmd = ir.Command{Kind: ir.KindRotateA, Bit: ir.BitRr}
	case b == 0x27:
		inst.Cmd = ir.Command{Kind: ir.KindDaa}
	case b == 0x2F:
		inst.Cmd = ir.Command{Kind: ir.KindCpl}
	case b == 0xF9:
		inst.Cmd = ir.Command{Kind: ir.KindLdSPHL}
	case b == 0xE9:
		inst.Cmd = ir.Command{Kind: ir.KindJump, Target: ir.JumpTarget{Kind: ir.JumpHL}, Condition: ir.Always}
	case b == 0xC9:
		inst.Cmd = ir.Command{Kind: ir.KindRet, Condition: ir.Always}
	case b == 0xD9:
		inst.Cmd = ir.Command{Kind: ir.KindRet, Condition: ir.Always, IntEnable: true}
	case b == 0xCD:
		inst.Cmd = ir.Command{Kind: ir.KindCall, CallAddr: u16le(bytes[1], bytes[2]), Condition: ir.Always}
	case b == 0xC3:
		inst.Cmd = ir.Command{Kind: ir.KindJump, Target: ir.JumpTarget{Kind: ir.JumpAbsolute, Absolute: u16le(bytes[1], bytes[2])}, Condition: ir.Always}
	case b == 0x18:
		inst.Cmd = ir.Command{Kind: ir.KindJump, Target: ir.JumpTarget{Kind: ir.JumpRelative, Relative: int8(bytes[1])}, Condition: ir.Always}
	case b == 0x08:
		inst.Cmd = ir.Command{Kind: ir.KindStoreSP, StoreAddr: u16le(bytes[1], bytes[2])}
	case b == 0xE8:
		inst.Cmd = ir.Command{Kind: ir.KindAddSP, Offset: int8(bytes[1])}
	case b == 0xF8:
		inst.Cmd = ir.Command{Kind: ir.KindHLSPOffset, Offset: int8(bytes[1])}
	case b == 0xE0:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A},
			Dst: ir.HalfWordID{Kind: ir.HwIoImmAddr, Imm: bytes[1]}}
	case b == 0xF0:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwIoImmAddr, Imm: bytes[1]},
			Dst: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A}}
	case b == 0xE2:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A},
			Dst: ir.HalfWordID{Kind: ir.HwIoRegAddr, Reg: ir.C}}
	case b == 0xF2:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwIoRegAddr, Reg: ir.C},
			Dst: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A}}
	case b == 0xEA:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A},
			Dst: ir.HalfWordID{Kind: ir.HwAddr, Addr: u16le(bytes[1], bytes[2])}}
	case b == 0xFA:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwAddr, Addr: u16le(bytes[1], bytes[2])},
			Dst: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A}}
	case b == 0x02:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A},
			Dst: ir.HalfWordID{Kind: ir.HwRegAddr, Full: ir.BC}}
	case b == 0x12:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A},
			Dst: ir.HalfWordID{Kind: ir.HwRegAddr, Full: ir.DE}}
	case b == 0x0A:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegAddr, Full: ir.BC},
			Dst: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A}}
	case b == 0x1A:
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwRegAddr, Full: ir.DE},
			Dst: ir.HalfWordID{Kind: ir.HwRegVal, Reg: ir.A}}
	case b == 0x22:
		inst.Cmd = ir.Command{Kind: ir.KindLdAddrInc, Inc: true, Load: false}
	case b == 0x32:
		inst.Cmd = ir.Command{Kind: ir.KindLdAddrInc, Inc: false, Load: false}
	case b == 0x2A:
		inst.Cmd = ir.Command{Kind: ir.KindLdAddrInc, Inc: true, Load: true}
	case b == 0x3A:
		inst.Cmd = ir.Command{Kind: ir.KindLdAddrInc, Inc: false, Load: true}

	case hi == 1:
		// 0x40-0x7F, excluding 0x76 (HALT) already matched above.
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf, Src: halfWordOfField(lo), Dst: halfWordOfField(mid)}
	case hi == 0 && lo == 6:
		// LD r,n / LD (HL),n
		inst.Cmd = ir.Command{Kind: ir.KindLdHalf,
			Src: ir.HalfWordID{Kind: ir.HwImm, Imm: bytes[1]},
			Dst: halfWordOfField(mid)}
	case hi == 0 && lo == 1 && mid%2 == 0:
		inst.Cmd = ir.Command{Kind: ir.KindLdFullImm, FullReg: fullRegOrderSP[mid>>1], Imm16: u16le(bytes[1], bytes[2])}
	case hi == 3 && lo == 5 && mid%2 == 0:
		inst.Cmd = ir.Command{Kind: ir.KindPush, FullReg: fullRegOrderAF[mid>>1]}
	case hi == 3 && lo == 1 && mid%2 == 0:
		inst.Cmd = ir.Command{Kind: ir.KindPop, FullReg: fullRegOrderAF[mid>>1]}
	case hi == 2:
		// ALU A,r / ALU A,(HL)
		inst.Cmd = ir.Command{Kind: ir.KindAluHalf, Alu: aluOrder[mid], AluOp: ir.AluOperand{Kind: ir.AluOperandLoc, Loc: locOfField(lo)}}
	case hi == 3 && lo == 6:
		inst.Cmd = ir.Command{Kind: ir.KindAluHalf, Alu: aluOrder[mid], AluOp: ir.AluOperand{Kind: ir.AluOperandImm, Imm: bytes[1]}}
	case hi == 0 && lo == 3 && mid%2 == 0:
		inst.Cmd = ir.Command{Kind: ir.KindIncDecFull, FullReg: fullRegOrderSP[mid>>1], IncDec: true}
	case hi == 0 && (b&0xF) == 0xB:
		inst.Cmd = ir.Command{Kind: ir.KindIncDecFull, FullReg: fullRegOrderSP[mid>>1], IncDec: false}
	case hi == 0 && lo == 4:
		inst.Cmd = ir.Command{Kind: ir.KindIncDecHalf, Loc: locOfField(mid), IncDec: true}
	case hi == 0 && lo == 5:
		inst.Cmd = ir.Command{Kind: ir.KindIncDecHalf, Loc: locOfField(mid), IncDec: false}
	case hi == 0 && (b&0xF) == 9:
		inst.Cmd = ir.Command{Kind: ir.KindAddHL, FullReg: fullRegOrderSP[mid>>1]}
	case hi == 3 && lo == 2 && mid < 4:
		inst.Cmd = ir.Command{Kind: ir.KindJump, Target: ir.JumpTarget{Kind: ir.JumpAbsolute, Absolute: u16le(bytes[1], bytes[2])}, Condition: condOrder[mid]}
	case hi == 0 && lo == 0 && mid >= 4 && mid < 8:
		inst.Cmd = ir.Command{Kind: ir.KindJump, Target: ir.JumpTarget{Kind: ir.JumpRelative, Relative: int8(bytes[1])}, Condition: condOrder[mid-4]}
	case hi == 3 && lo == 4 && mid < 4:
		inst.Cmd = ir.Command{Kind: ir.KindCall, CallAddr: u16le(bytes[1], bytes[2]), Condition: condOrder[mid]}
	case hi == 3 && lo == 0 && mid < 4:
		inst.Cmd = ir.Command{Kind: ir.KindRet, Condition: condOrder[mid]}
	case hi == 3 && lo == 7:
		inst.Cmd = ir.Command{Kind: ir.KindRst, RstTarget: mid * 8}

	default:
		// Every LR35902 opcode byte is covered by one of the arms above;
		// reaching here indicates a gap in this decoder, not a genuinely
		// undefined encoding (those are filtered out by IsInvalid already).
		inst.Cmd = ir.Command{Kind: ir.KindInvalid, InvalidByte: b}
	}

	inst.Cycles, inst.AltCycles, inst.HasAltCycles = cyclesFor(b, inst.Cmd)
	return inst
}
