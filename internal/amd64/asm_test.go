package amd64

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovRegImm32(t *testing.T) {
	a := New()
	a.MovRegImm32(RAX, 0x12345678)
	assert.Equal(t, []byte{0xB8, 0x78, 0x56, 0x34, 0x12}, a.Code)
}

func TestMovRegImm32ExtendedReg(t *testing.T) {
	a := New()
	a.MovRegImm32(R14, 1)
	assert.Equal(t, byte(0x41), a.Code[0]) // REX.B
	assert.Equal(t, byte(0xB8+6), a.Code[1])
}

func TestPushPop(t *testing.T) {
	a := New()
	a.Push(RBP)
	a.Pop(RBP)
	assert.Equal(t, []byte{0x55, 0x5D}, a.Code)
}

func TestJmpLabelResolves(t *testing.T) {
	a := New()
	a.JmpLabel("end")
	a.MovRegImm32(RAX, 0)
	a.Label("end")
	a.Ret()
	assert.NoError(t, a.Resolve())
	// jmp rel32 is 5 bytes (E9 + 4-byte disp); the MovRegImm32 in between is
	// 5 bytes, so the displacement should be exactly 5.
	disp := int32(a.Code[1]) | int32(a.Code[2])<<8 | int32(a.Code[3])<<16 | int32(a.Code[4])<<24
	assert.Equal(t, int32(5), disp)
}

func TestResolveUnknownLabelErrors(t *testing.T) {
	a := New()
	a.JmpLabel("nowhere")
	assert.Error(t, a.Resolve())
}

func TestCallReg(t *testing.T) {
	a := New()
	a.CallReg(RAX)
	assert.Equal(t, []byte{0xFF, 0xD0}, a.Code)
}

func TestCallRegExtended(t *testing.T) {
	a := New()
	a.CallReg(R10)
	assert.Equal(t, byte(0x41), a.Code[0]) // REX.B
	assert.Equal(t, byte(0xFF), a.Code[1])
	assert.Equal(t, modrm(3, 2, 2), a.Code[2])
}
