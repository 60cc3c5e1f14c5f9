// Package cpustate defines the fixed, C-compatible register snapshot that
// crosses the host/JIT ABI boundary: compiled blocks read and write this
// struct directly through pinned host registers (see package block), and the
// Gb runtime reads it between blocks to service events and drive the
// debugger.
package cpustate

import "fmt"

// Flag bit positions within F, the high byte of AF.
const (
	FlagZ = 7
	FlagN = 6
	FlagH = 5
	FlagC = 4
)

// CpuState is the guest register file. Field order matches the layout
// compiled code addresses through the CpuState pointer passed at block
// entry: sp and pc first since every block prologue/epilogue touches them,
// then af/bc/de/hl, then intenable as a trailing byte-sized flag.
//
// Within af, the low byte holds the A register and the high byte holds F
// (Z/N/H/C in bits 7/6/5/4); Flags() and SetFlags() are the only places that
// should reach into that encoding.
type CpuState struct {
	SP        uint16
	PC        uint16
	AF        uint16
	BC        uint16
	DE        uint16
	HL        uint16
	IntEnable bool
}

// New returns a zeroed CpuState, matching post-BIOS-skip or post-reset state
// (callers that need the real DMG boot register values set them explicitly).
func New() CpuState {
	return CpuState{}
}

func (s CpuState) A() uint8 { return uint8(s.AF) }

func (s *CpuState) SetA(v uint8) { s.AF = s.AF&0xFF00 | uint16(v) }

func (s CpuState) Flags() uint8 { return uint8(s.AF >> 8) }

func (s *CpuState) SetFlags(f uint8) { s.AF = s.AF&0x00FF | uint16(f)<<8 }

func (s CpuState) FlagZ() bool { return s.Flags()&(1<<FlagZ) != 0 }
func (s CpuState) FlagN() bool { return s.Flags()&(1<<FlagN) != 0 }
func (s CpuState) FlagH() bool { return s.Flags()&(1<<FlagH) != 0 }
func (s CpuState) FlagC() bool { return s.Flags()&(1<<FlagC) != 0 }

// String renders the same differential-trace-friendly line the original
// emulator's Display impl produces, used by both the debugger and
// std-logging output.
func (s CpuState) String() string {
	flags := s.Flags()
	fc := func(bit uint, c byte) byte {
		if flags&(1<<bit) != 0 {
			return c
		}
		return '-'
	}
	return fmt.Sprintf("A: %02x, F: %c%c%c%c, BC: %04x, DE: %04x, HL: %04x, SP: %04x",
		s.A(), fc(FlagZ, 'Z'), fc(FlagN, 'N'), fc(FlagH, 'H'), fc(FlagC, 'C'),
		s.BC, s.DE, s.HL, s.SP)
}
