package gb

import (
	"fmt"

	"github.com/sean-purcell/gbjit/cpustate"
)

// activeTrace receives every per-instruction trace call emitted by a
// compiled block. The core is single-threaded cooperative (spec.md §5: one
// host thread ever drives a block at a time), so a single package-level
// sink mirrors the same "monomorphized trampoline, erased at the JIT
// boundary" shape as bus.Erase's rawRead/rawWrite rather than needing its
// own per-Gb handle table.
var activeTrace func(cpu *cpustate.CpuState, pc uint16)

// traceThunk is the fixed address codegen.Context.TraceAddr points at; its
// reflect-obtained code pointer is what compiled blocks actually call.
func traceThunk(cpu *cpustate.CpuState, pc uint16) {
	if activeTrace != nil {
		activeTrace(cpu, pc)
	}
}

// onTrace renders the fixed std-logging line spec.md §4.4 specifies
// ("A: xx, F: Z N H C, BC: ..., (HL): .., ppu: N, clk: N. PC: CMD") when
// StdLogging is enabled, or a looser per-instruction debug line via the
// structured logger otherwise.
func (g *Gb) onTrace(cpu *cpustate.CpuState, pc uint16) {
	hl := g.wrapped.Read(cpu.HL)
	if g.opts.StdLogging {
		fmt.Printf("%s, (HL): %02x, ppu: %d, clk: %d. PC: %04x\n",
			cpu.String(), hl, g.ppu.line, g.cycles.Cycle(), pc)
		return
	}
	g.logger.Debug("trace", "pc", fmt.Sprintf("%04x", pc), "state", cpu.String())
}
