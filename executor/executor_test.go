package executor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sean-purcell/gbjit/bus"
	"github.com/sean-purcell/gbjit/codegen"
)

func testContext(b bus.Bus) *codegen.Context {
	ctx, funcs := bus.Erase(b)
	return &codegen.Context{
		ReadAddr:  uint64(reflect.ValueOf(funcs.Read).Pointer()),
		WriteAddr: uint64(reflect.ValueOf(funcs.Write).Pointer()),
		OneoffCtx: ctx,
	}
}

func TestCompileCachesUntilVersionChanges(t *testing.T) {
	fb := bus.NewFlatBus([]byte{0x00, 0x00, 0x00, 0xC9}) // NOP NOP NOP RET
	e := New(testContext(fb), codegen.Options{})

	page := fb.Page(0)
	b1, err := e.Compile(page)
	assert.NoError(t, err)

	b2, err := e.Compile(page)
	assert.NoError(t, err)
	assert.Same(t, b1, b2, "identical (id, version) must return the cached block")

	fb.Write(0, 0x00) // bumps the flat bus's single page version
	page2 := fb.Page(0)
	b3, err := e.Compile(page2)
	assert.NoError(t, err)
	assert.NotSame(t, b1, b3, "a higher version must recompile")
}

func TestDecodePageEmitsIncompleteTail(t *testing.T) {
	// 0x01 (LD BC,nn) needs 3 bytes; only 2 are available.
	insts := decodePage(0xC000, []byte{0x00, 0x01, 0x34})
	if assert.Len(t, insts, 2) {
		assert.NotEqual(t, uint8(0), insts[1].Cmd.IncompleteTrailByte)
	}
}

func TestDecodePageHandlesWholeBlock(t *testing.T) {
	insts := decodePage(0, []byte{0x00, 0xC9})
	assert.Len(t, insts, 2)
}
