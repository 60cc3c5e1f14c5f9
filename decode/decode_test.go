package decode

import (
	"testing"

	"github.com/sean-purcell/gbjit/ir"
	"github.com/stretchr/testify/assert"
)

func TestDecodeNop(t *testing.T) {
	inst := Decode([]byte{0x00})
	assert.Equal(t, ir.KindControl, inst.Cmd.Kind)
	assert.Equal(t, ir.CtrlNop, inst.Cmd.Ctrl)
	assert.Equal(t, uint8(4), inst.Cycles)
	assert.Equal(t, uint16(1), inst.Size())
}

func TestDecodeLdBC16(t *testing.T) {
	inst := Decode([]byte{0x01, 0x34, 0x12})
	assert.Equal(t, ir.KindLdFullImm, inst.Cmd.Kind)
	assert.Equal(t, ir.BC, inst.Cmd.FullReg)
	assert.Equal(t, uint16(0x1234), inst.Cmd.Imm16)
	assert.Equal(t, uint16(3), inst.Size())
}

func TestDecodeLdRR(t *testing.T) {
	// LD B,C = 0x41
	inst := Decode([]byte{0x41})
	assert.Equal(t, ir.KindLdHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.HwRegVal, inst.Cmd.Src.Kind)
	assert.Equal(t, ir.C, inst.Cmd.Src.Reg)
	assert.Equal(t, ir.HwRegVal, inst.Cmd.Dst.Kind)
	assert.Equal(t, ir.B, inst.Cmd.Dst.Reg)
}

func TestDecodeHalt(t *testing.T) {
	inst := Decode([]byte{0x76})
	assert.Equal(t, ir.KindControl, inst.Cmd.Kind)
	assert.Equal(t, ir.CtrlHalt, inst.Cmd.Ctrl)
}

func TestDecodeJpNN(t *testing.T) {
	inst := Decode([]byte{0xC3, 0x00, 0x80})
	assert.Equal(t, ir.KindJump, inst.Cmd.Kind)
	assert.Equal(t, ir.JumpAbsolute, inst.Cmd.Target.Kind)
	assert.Equal(t, uint16(0x8000), inst.Cmd.Target.Absolute)
	assert.Equal(t, ir.Always, inst.Cmd.Condition)
	assert.Equal(t, uint8(16), inst.Cycles)
}

func TestDecodeJrCond(t *testing.T) {
	inst := Decode([]byte{0x20, 0xFE}) // JR NZ,-2
	assert.Equal(t, ir.KindJump, inst.Cmd.Kind)
	assert.Equal(t, ir.JumpRelative, inst.Cmd.Target.Kind)
	assert.Equal(t, int8(-2), inst.Cmd.Target.Relative)
	assert.Equal(t, ir.CondNZ, inst.Cmd.Condition)
	assert.True(t, inst.HasAltCycles)
	assert.Equal(t, uint8(12), inst.Cycles)
	assert.Equal(t, uint8(8), inst.AltCycles)
}

func TestDecodeInvalid(t *testing.T) {
	inst := Decode([]byte{0xD3})
	assert.Equal(t, ir.KindInvalid, inst.Cmd.Kind)
	assert.Equal(t, byte(0xD3), inst.Cmd.InvalidByte)
}

func TestDecodeCBBit(t *testing.T) {
	// BIT 7,H = CB 7C
	inst := Decode([]byte{0xCB, 0x7C})
	assert.Equal(t, ir.KindBitHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.BitBit, inst.Cmd.Bit)
	assert.Equal(t, uint8(7), inst.Cmd.BitNum)
	assert.False(t, inst.Cmd.Loc.IsMem)
	assert.Equal(t, ir.H, inst.Cmd.Loc.Reg)
	assert.Equal(t, uint16(2), inst.Size())
}

func TestDecodeCBRlcHLMem(t *testing.T) {
	// RLC (HL) = CB 06
	inst := Decode([]byte{0xCB, 0x06})
	assert.Equal(t, ir.KindBitHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.BitRlc, inst.Cmd.Bit)
	assert.True(t, inst.Cmd.Loc.IsMem)
	assert.Equal(t, uint8(16), inst.Cycles)
}

func TestDecodeCBRrcB(t *testing.T) {
	// RRC B = CB 08
	inst := Decode([]byte{0xCB, 0x08})
	assert.Equal(t, ir.KindBitHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.BitRrc, inst.Cmd.Bit)
	assert.False(t, inst.Cmd.Loc.IsMem)
	assert.Equal(t, ir.B, inst.Cmd.Loc.Reg)
	assert.Equal(t, uint8(8), inst.Cycles)
}

func TestDecodeCBRlB(t *testing.T) {
	// RL B = CB 10
	inst := Decode([]byte{0xCB, 0x10})
	assert.Equal(t, ir.KindBitHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.BitRl, inst.Cmd.Bit)
	assert.False(t, inst.Cmd.Loc.IsMem)
	assert.Equal(t, ir.B, inst.Cmd.Loc.Reg)
	assert.Equal(t, uint8(8), inst.Cycles)
}

func TestDecodeAluImm(t *testing.T) {
	// CP n = 0xFE
	inst := Decode([]byte{0xFE, 0x10})
	assert.Equal(t, ir.KindAluHalf, inst.Cmd.Kind)
	assert.Equal(t, ir.AluCp, inst.Cmd.Alu)
	assert.Equal(t, ir.AluOperandImm, inst.Cmd.AluOp.Kind)
	assert.Equal(t, uint8(0x10), inst.Cmd.AluOp.Imm)
}

func TestDecodeRst(t *testing.T) {
	inst := Decode([]byte{0xEF}) // RST 28h
	assert.Equal(t, ir.KindRst, inst.Cmd.Kind)
	assert.Equal(t, uint8(0x28), inst.Cmd.RstTarget)
}
