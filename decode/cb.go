package decode

import (
	"github.com/sean-purcell/gbjit/ir"
	"github.com/sean-purcell/gbjit/mask"
)

var bitOrder = [8]ir.BitCommand{
	ir.BitRlc, ir.BitRrc, ir.BitRl, ir.BitRr, ir.BitSla, ir.BitSra, ir.BitSwap, ir.BitSrl,
}

// decodeCB decodes the second byte of a 0xCB-prefixed instruction. Every
// value of b is a defined opcode; there is no CB-prefixed invalid set.
func decodeCB(b byte) ir.Instruction {
	hi := mask.Range(b, mask.I1, mask.I2)
	mid := mask.Range(b, mask.I3, mask.I5)
	lo := mask.Range(b, mask.I6, mask.I8)

	loc := locOfField(lo)
	cmd := ir.Command{Kind: ir.KindBitHalf, Loc: loc}

	switch hi {
	case 0:
		cmd.Bit = bitOrder[mid]
	case 1:
		cmd.Bit = ir.BitBit
		cmd.BitNum = mid
	case 2:
		cmd.Bit = ir.BitRes
		cmd.BitNum = mid
	case 3:
		cmd.Bit = ir.BitSet
		cmd.BitNum = mid
	}

	cycles := uint8(8)
	if loc.IsMem {
		cycles = 16
		if hi == 1 { // BIT (HL) reads only, no writeback
			cycles = 12
		}
	}

	return ir.Instruction{
		Cmd:      cmd,
		Cycles:   cycles,
		Encoding: [3]byte{0xCB, b, 0},
		Len:      2,
	}
}
