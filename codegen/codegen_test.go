package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sean-purcell/gbjit/ir"
)

func testCtx() *Context {
	return &Context{ReadAddr: 1, WriteAddr: 2, TraceAddr: 3, OneoffResolveAddr: 4}
}

func TestCodegenBlockNonEmpty(t *testing.T) {
	nop := ir.Instruction{Cmd: ir.Command{Kind: ir.Kind(-1)}, Cycles: 4, Encoding: [3]byte{0x00}, Len: 1}
	blk, err := CodegenBlock(0x100, []ir.Instruction{nop}, testCtx(), Options{})
	assert.NoError(t, err)
	assert.NotEmpty(t, blk.Code)
	assert.Len(t, blk.InstOffsets, 1)
	assert.GreaterOrEqual(t, blk.EntryOffset, 0)
}

func TestCodegenBlockIncompleteTail(t *testing.T) {
	insts := []ir.Instruction{
		{Cmd: ir.Command{Kind: ir.Kind(-1)}, Cycles: 4, Encoding: [3]byte{0x00}, Len: 1},
		ir.Incomplete(0x01, 2),
	}
	blk, err := CodegenBlock(0x100, insts, testCtx(), Options{})
	assert.NoError(t, err)
	if assert.Len(t, blk.InstOffsets, 2) {
		assert.Less(t, blk.InstOffsets[0], blk.InstOffsets[1])
	}
}

func TestCodegenOneoffsProducesOffsetPerInstruction(t *testing.T) {
	insts := make([]ir.Instruction, 4)
	for i := range insts {
		insts[i] = ir.Instruction{Cmd: ir.Command{Kind: ir.Kind(-1)}, Cycles: 4, Encoding: [3]byte{0x00}, Len: 1}
	}
	blk, err := CodegenOneoffs(insts, testCtx())
	assert.NoError(t, err)
	assert.Len(t, blk.InstOffsets, 4)
}
