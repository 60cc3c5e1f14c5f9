package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatBusReadWrite(t *testing.T) {
	b := NewFlatBus([]byte{0x00, 0x01, 0x02})
	assert.Equal(t, uint8(0x01), b.Read(1))
	b.Write(1, 0xFF)
	assert.Equal(t, uint8(0xFF), b.Read(1))
}

func TestFlatBusVersionIncrements(t *testing.T) {
	b := NewFlatBus(nil)
	p1 := b.Page(0)
	b.Write(10, 1)
	p2 := b.Page(0)
	assert.False(t, p1.Matches(p2))
	assert.Greater(t, p2.Version, p1.Version)
}

func TestErase(t *testing.T) {
	b := NewFlatBus([]byte{0x42})
	ctx, funcs := Erase(b)
	assert.Equal(t, uint8(0x42), funcs.Read(0, ctx))
	funcs.Write(0, 0x99, ctx)
	assert.Equal(t, uint8(0x99), b.Read(0))
}

func TestPageContains(t *testing.T) {
	p := Page{BaseAddr: 0x8000, Size: 0x2000}
	assert.True(t, p.Contains(0x8000))
	assert.True(t, p.Contains(0x9FFF))
	assert.False(t, p.Contains(0xA000))
}
