package gb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sean-purcell/gbjit/bus"
)

func TestNewWiresComponents(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)
	assert.NotNil(t, g.exec)
	assert.NotNil(t, g.events)
	assert.NotNil(t, g.ppu)
	assert.Equal(t, uint16(0), g.Cpu.PC)
}

func TestSelfModBusForcesStopOnVersionMismatch(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)

	page := g.wrapped.Page(0x10)
	g.execState = executionState{started: true, pc: 0x10, id: page.ID, version: page.Version}
	g.cycles.SetHardLimit(1000)

	g.wrapped.Write(0x20, 0xAB) // bumps the flat bus's single page version

	raw := g.cycles.Raw()
	assert.Equal(t, uint64(0), *raw.HardLimit, "a write during the recorded page's execution must force the block to stop")
}

func TestSelfModBusIgnoresWritesBeforeAnyBlockEntered(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)

	g.wrapped.Write(0x20, 0xAB)
	assert.False(t, g.execState.started)
}

func TestWakeHaltedAdvancesPastHaltWhenInterruptPending(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)

	g.Cpu.PC = 0x10
	g.wrapped.Write(0x10, haltOpcode)
	g.Cpu.IntEnable = true
	g.serviceInterrupt()

	g.wakeHalted()

	assert.Equal(t, uint16(0x11), g.Cpu.PC)
	assert.Equal(t, uint8(0), g.ifPending)
}

func TestWakeHaltedNoopWithoutPendingInterrupt(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)

	g.Cpu.PC = 0x10
	g.wrapped.Write(0x10, haltOpcode)
	g.Cpu.IntEnable = true

	g.wakeHalted()

	assert.Equal(t, uint16(0x10), g.Cpu.PC, "no latched interrupt means the halt stays pinned")
}

func TestWakeHaltedAdvancesTwoBytesPastStop(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	g, err := New(fb, Options{})
	assert.NoError(t, err)

	g.Cpu.PC = 0x10
	g.wrapped.Write(0x10, stopOpcode)
	g.wrapped.Write(0x11, 0x00)
	g.Cpu.IntEnable = true
	g.serviceInterrupt()

	g.wakeHalted()

	assert.Equal(t, uint16(0x12), g.Cpu.PC)
}

func TestPpuAdvanceScanlineWraps(t *testing.T) {
	fb := bus.NewFlatBus(nil)
	p := newPpu(fb)
	for i := 0; i < scanlinesPerFrame; i++ {
		p.advanceScanline()
	}
	assert.Equal(t, uint16(0), p.line)
}
