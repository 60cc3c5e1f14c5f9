// Package gb drives the frame loop: scheduling PPU/timer/frame-end events,
// handing the running page to the executor, entering compiled blocks, and
// reconciling self-modification against the recorded execution state.
// Grounded on the original's gb/mod.rs and gb/event_manager.rs.
package gb

import (
	"fmt"
	"os"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/sean-purcell/gbjit/bus"
	"github.com/sean-purcell/gbjit/codegen"
	"github.com/sean-purcell/gbjit/cpustate"
	"github.com/sean-purcell/gbjit/cycle"
	"github.com/sean-purcell/gbjit/event"
	"github.com/sean-purcell/gbjit/executor"
	"github.com/sean-purcell/gbjit/oneoff"
)

// timerPeriod is the cycle cadence of the DIV-driven Timer event source, a
// simplification of the real 16384Hz divider down to a fixed cycle count
// good enough to give HALT a periodic wake reason (spec.md §9, Open
// Question 2).
const timerPeriod = 256

// Options configures a Gb, mirroring spec.md §6's process-wide
// configuration flags.
type Options struct {
	TracePC            bool
	StdLogging         bool
	DisassemblyLogfile string
	Logger             *log.Logger
}

// executionState records the page a block was entered against (spec.md
// §4.4's "execution_state"), so a self-modifying write mid-block can tell
// whether it invalidated the code currently running.
type executionState struct {
	started bool
	pc      uint16
	id      bus.ID
	version uint64
}

// selfModBus wraps the real Bus so every write re-resolves the page
// containing the currently executing pc and force-stops the active block on
// a version mismatch, per spec.md §4.4's self-modification check.
type selfModBus struct {
	bus.Bus
	gb *Gb
}

func (w *selfModBus) Write(addr uint16, val uint8) {
	w.Bus.Write(addr, val)
	es := w.gb.execState
	if !es.started {
		return
	}
	p := w.Bus.Page(es.pc)
	if p.ID == es.id && p.Version != es.version {
		w.gb.cycles.ForceStop()
	}
}

// Gb bundles every core component into the runnable unit spec.md §4.4
// describes: a bus, the block cache, the cycle/event coordinator, the guest
// register file, and the (non-goal-simplified) PPU.
type Gb struct {
	wrapped *selfModBus
	exec    *executor.Executor
	cycles  *cycle.State
	events  *event.Manager
	ppu     *ppu

	Cpu cpustate.CpuState

	opts       Options
	logger     *log.Logger
	execState  executionState
	busCtx     uintptr
	disasmFile *os.File

	ifPending uint8 // pending interrupt flag bits, latched by the Interrupt event source
}

// Close releases resources opened by New, currently just the optional
// disassembly log file.
func (g *Gb) Close() error {
	if g.disasmFile != nil {
		return g.disasmFile.Close()
	}
	return nil
}

// New builds a Gb over b, wiring the oneoff table, the bus thunks, and the
// trace sink, then hands the assembled codegen.Context to a fresh Executor.
func New(b bus.Bus, opts Options) (*Gb, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	g := &Gb{cycles: cycle.New(), opts: opts, logger: logger}
	g.wrapped = &selfModBus{Bus: b, gb: g}
	g.events = event.New(g.cycles)
	g.ppu = newPpu(g.wrapped)

	busCtx, busFuncs := bus.Erase(g.wrapped)

	oneoffCtx := &codegen.Context{
		ReadAddr:  uint64(reflect.ValueOf(busFuncs.Read).Pointer()),
		WriteAddr: uint64(reflect.ValueOf(busFuncs.Write).Pointer()),
	}
	table, err := oneoff.Build(oneoffCtx)
	if err != nil {
		return nil, fmt.Errorf("gb: building oneoff table: %w", err)
	}
	oneoffHandle, resolveAddr := oneoff.Erase(table)

	activeTrace = g.onTrace
	ctx := &codegen.Context{
		ReadAddr:          uint64(reflect.ValueOf(busFuncs.Read).Pointer()),
		WriteAddr:         uint64(reflect.ValueOf(busFuncs.Write).Pointer()),
		TraceAddr:         uint64(reflect.ValueOf(traceThunk).Pointer()),
		OneoffResolveAddr: resolveAddr,
		OneoffCtx:         oneoffHandle,
	}

	cgOpts := codegen.Options{
		TracePC:            opts.TracePC || opts.StdLogging,
		StdLogging:         opts.StdLogging,
		DisassemblyLogfile: opts.DisassemblyLogfile,
	}
	g.exec = executor.New(ctx, cgOpts)

	if opts.DisassemblyLogfile != "" {
		f, err := os.Create(opts.DisassemblyLogfile)
		if err != nil {
			return nil, fmt.Errorf("gb: opening disassembly log: %w", err)
		}
		g.disasmFile = f
		g.exec.Disassemble = func(id bus.ID, text string) {
			fmt.Fprintf(f, "=== page %+v ===\n%s", id, text)
		}
	} else {
		g.exec.Disassemble = func(id bus.ID, text string) {
			logger.Debug("compiled block", "page", id, "disasm", text)
		}
	}
	g.busCtx = busCtx

	g.events.AddEvent(event.SourcePpu, cyclesPerScanline)
	g.events.AddEvent(event.SourceTimer, timerPeriod)

	return g, nil
}

// RunFrame executes guest code until one DMG frame's worth of cycles have
// elapsed, servicing PPU/timer/interrupt events in deadline order between
// block entries, per spec.md §4.4's frame loop. It returns the rendered
// framebuffer for that frame.
func (g *Gb) RunFrame() [ScreenHeight][ScreenWidth]byte {
	frameStart := g.cycles.Cycle()
	g.events.AddEvent(event.SourceFrameEnd, frameStart+CyclesPerFrame)
	g.events.AddEvent(event.SourceInterrupt, frameStart+uint64(ScreenHeight)*cyclesPerScanline)

	for {
		g.wakeHalted()

		page := g.wrapped.Page(g.Cpu.PC)
		blk, err := g.exec.Compile(page)
		if err != nil {
			g.logger.Fatal("compile failed", "pc", fmt.Sprintf("%04x", g.Cpu.PC), "err", err)
		}

		g.execState = executionState{started: true, pc: g.Cpu.PC, id: page.ID, version: page.Version}
		blk.Enter(&g.Cpu, g.busCtx, g.cycles)

		done := g.drainEvents()
		if done {
			return g.ppu.Framebuffer
		}
	}
}

// drainEvents services every event whose deadline has passed, in deadline
// order, and reschedules each source's next occurrence. It reports whether
// the just-ended frame is complete.
func (g *Gb) drainEvents() bool {
	frameDone := false
	for _, src := range g.events.DueEvents() {
		switch src {
		case event.SourcePpu:
			g.ppu.advanceScanline()
			g.events.AddEvent(event.SourcePpu, g.cycles.Cycle()+cyclesPerScanline)
		case event.SourceTimer:
			g.events.AddEvent(event.SourceTimer, g.cycles.Cycle()+timerPeriod)
		case event.SourceInterrupt:
			g.serviceInterrupt()
		case event.SourceFrameEnd:
			frameDone = true
		}
	}
	return frameDone
}

// serviceInterrupt implements the wake half of spec.md §9's Open Question
// 2: a latched pending interrupt, observed the next time a block is
// (re-)entered, resumes a HALTed guest rather than leaving it stuck
// forever. The guest ISR dispatch itself (pushing PC, jumping to the
// vector, clearing IME) is left to the guest's own RETI/EI bookkeeping once
// woken; this only guarantees the runtime does not loop forever inside a
// HALT with no scheduled event.
func (g *Gb) serviceInterrupt() {
	g.ifPending |= 1
}

// haltOpcode and stopOpcode are ir.CtrlHalt/ir.CtrlStop's raw encodings;
// codegen/control.go compiles both to EpilogueDescription{Repeat: true},
// pinning pc at the instruction's own address until something outside
// compiled code moves it forward.
const (
	haltOpcode = 0x76
	stopOpcode = 0x10
)

// wakeHalted implements the other half of the HALT/STOP wake path: if pc is
// sitting on a HALT or STOP byte, an interrupt has been latched by
// serviceInterrupt, and the guest has interrupts enabled, step pc past the
// instruction so the next Compile/Enter resumes normal execution instead of
// re-entering the same pinned repeat block. Per spec.md §9's Open Question,
// this runtime only guarantees a guest halted on a pending interrupt source
// eventually resumes; it does not model IE/IF register semantics or ISR
// vectoring, which belong to the bus's IO-region modeling outside the
// core's scope.
func (g *Gb) wakeHalted() {
	if g.ifPending == 0 || !g.Cpu.IntEnable {
		return
	}
	switch g.wrapped.Read(g.Cpu.PC) {
	case haltOpcode:
		g.Cpu.PC++
		g.ifPending = 0
	case stopOpcode:
		g.Cpu.PC += 2
		g.ifPending = 0
	}
}
