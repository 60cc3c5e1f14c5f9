// Command gbjit drives the JIT core against a ROM image for a fixed number
// of frames and writes the final framebuffer as a PGM image, enough to
// prove the translation pipeline executes real guest code without pulling
// in a windowed rendering backend (spec.md §6, a Non-goal).
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/sean-purcell/gbjit/bus"
	"github.com/sean-purcell/gbjit/gb"
)

func main() {
	var (
		tracePC    = pflag.Bool("trace-pc", false, "log every translated instruction as it executes")
		stdLogging = pflag.Bool("std-logging", false, "emit the fixed-format differential trace line instead of structured logs")
		disasmLog  = pflag.String("disasm-log", "", "path to write guest+host disassembly for every compiled block")
		romPath    = pflag.String("rom", "", "path to the Game Boy ROM image (required)")
		biosPath   = pflag.String("bios", "", "path to the boot ROM image (optional)")
		frames     = pflag.Int("frames", 60, "number of frames to run before exiting")
		outPath    = pflag.String("out", "frame.pgm", "path to write the final frame's framebuffer")
	)
	pflag.Parse()

	logger := log.Default()
	if *tracePC {
		logger.SetLevel(log.DebugLevel)
	}

	if *romPath == "" {
		logger.Fatal("--rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		logger.Fatal("reading rom", "err", err)
	}

	buf := make([]byte, 64*1024)
	copy(buf, rom)
	startPC := uint16(0x100)

	if *biosPath != "" {
		bios, err := os.ReadFile(*biosPath)
		if err != nil {
			logger.Fatal("reading bios", "err", err)
		}
		copy(buf, bios)
		startPC = 0
	}

	flatBus := bus.NewFlatBus(buf)

	g, err := gb.New(flatBus, gb.Options{
		TracePC:            *tracePC,
		StdLogging:         *stdLogging,
		DisassemblyLogfile: *disasmLog,
		Logger:             logger,
	})
	if err != nil {
		logger.Fatal("initializing gb", "err", err)
	}
	defer g.Close()

	g.Cpu.PC = startPC
	g.Cpu.SP = 0xFFFE

	var framebuffer [gb.ScreenHeight][gb.ScreenWidth]byte
	for i := 0; i < *frames; i++ {
		framebuffer = g.RunFrame()
	}

	if err := writePGM(*outPath, framebuffer); err != nil {
		logger.Fatal("writing framebuffer", "err", err)
	}
	logger.Info("done", "frames", *frames, "out", *outPath)
}

// writePGM writes fb as a binary-grayscale (P5) PGM image, the simplest
// format that needs no external image encoding dependency for a one-shot
// debug snapshot.
func writePGM(path string, fb [gb.ScreenHeight][gb.ScreenWidth]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P5\n%d %d\n255\n", gb.ScreenWidth, gb.ScreenHeight)
	for _, row := range fb {
		w.Write(row[:])
	}
	return w.Flush()
}
