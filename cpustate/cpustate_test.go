package cpustate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsRoundTrip(t *testing.T) {
	var s CpuState
	s.SetA(0x12)
	s.SetFlags(1<<FlagZ | 1<<FlagC)
	assert.Equal(t, uint8(0x12), s.A())
	assert.True(t, s.FlagZ())
	assert.True(t, s.FlagC())
	assert.False(t, s.FlagN())
	assert.False(t, s.FlagH())
}

func TestString(t *testing.T) {
	var s CpuState
	s.SetA(0xAB)
	s.SetFlags(1 << FlagZ)
	s.BC, s.DE, s.HL, s.SP = 0x1111, 0x2222, 0x3333, 0x4444
	assert.Equal(t, "A: ab, F: Z---, BC: 1111, DE: 2222, HL: 3333, SP: 4444", s.String())
}
