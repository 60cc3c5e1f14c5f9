package decode

import "github.com/sean-purcell/gbjit/ir"

// cyclesFor returns the T-cycle cost of a decoded non-CB instruction. Most
// opcodes have a single fixed cost; conditional control transfers have a
// lower not-taken cost reported as altCycles.
func cyclesFor(b byte, cmd ir.Command) (cycles, altCycles uint8, hasAlt bool) {
	switch cmd.Kind {
	case ir.KindJump:
		switch cmd.Target.Kind {
		case ir.JumpHL:
			return 4, 0, false
		case ir.JumpRelative:
			if cmd.Condition == ir.Always {
				return 12, 0, false
			}
			return 12, 8, true
		default: // JumpAbsolute
			if cmd.Condition == ir.Always {
				return 16, 0, false
			}
			return 16, 12, true
		}
	case ir.KindCall:
		if cmd.Condition == ir.Always {
			return 24, 0, false
		}
		return 24, 12, true
	case ir.KindRet:
		if cmd.Condition == ir.Always {
			return 16, 0, false
		}
		return 20, 8, true
	case ir.KindRst:
		return 16, 0, false
	case ir.KindPush:
		return 16, 0, false
	case ir.KindPop:
		return 12, 0, false
	case ir.KindLdHalf:
		return halfLdCycles(cmd), 0, false
	case ir.KindLdAddrInc:
		return 8, 0, false
	case ir.KindLdFullImm:
		return 12, 0, false
	case ir.KindStoreSP:
		return 20, 0, false
	case ir.KindAluHalf:
		if cmd.AluOp.Kind == ir.AluOperandImm {
			return 8, 0, false
		}
		if cmd.AluOp.Loc.IsMem {
			return 8, 0, false
		}
		return 4, 0, false
	case ir.KindDaa, ir.KindCpl, ir.KindRotateA:
		return 4, 0, false
	case ir.KindAddHL:
		return 8, 0, false
	case ir.KindIncDecHalf:
		if cmd.Loc.IsMem {
			return 12, 0, false
		}
		return 4, 0, false
	case ir.KindIncDecFull:
		return 8, 0, false
	case ir.KindAddSP:
		return 16, 0, false
	case ir.KindHLSPOffset:
		return 12, 0, false
	case ir.KindLdSPHL:
		return 8, 0, false
	case ir.KindControl:
		return 4, 0, false
	default:
		return 4, 0, false
	}
}

func halfLdCycles(cmd ir.Command) uint8 {
	mem := func(id ir.HalfWordID) bool {
		switch id.Kind {
		case ir.HwRegAddr, ir.HwAddr, ir.HwIoImmAddr, ir.HwIoRegAddr:
			return true
		default:
			return false
		}
	}
	switch {
	case cmd.Src.Kind == ir.HwAddr || cmd.Dst.Kind == ir.HwAddr:
		return 16
	case cmd.Src.Kind == ir.HwIoImmAddr || cmd.Dst.Kind == ir.HwIoImmAddr:
		return 12
	case cmd.Src.Kind == ir.HwImm && mem(cmd.Dst):
		return 12
	case cmd.Src.Kind == ir.HwImm:
		return 8
	case mem(cmd.Src) || mem(cmd.Dst):
		return 8
	default:
		return 4
	}
}
