// Package executor is the block cache (spec.md §4.3): it decodes a page's
// bytes into IR, compiles the IR to a native block, and caches the result
// keyed by (page id, version), recompiling only when the version changes.
package executor

import (
	"github.com/sean-purcell/gbjit/block"
	"github.com/sean-purcell/gbjit/bus"
	"github.com/sean-purcell/gbjit/codegen"
	"github.com/sean-purcell/gbjit/decode"
	"github.com/sean-purcell/gbjit/ir"
)

// entry is one page's cache slot: the version it was compiled against and
// the resulting block.
type entry struct {
	version uint64
	block   *block.Block
}

// Executor owns every compiled block for a Gb's lifetime. There is no
// eviction beyond version replacement (spec.md §4.3's "cache owns all
// compiled buffers ... for the Gb's lifetime"), grounded on the original's
// executor/mod.rs HashMap + Entry pattern, rendered as a Go map with an
// explicit lookup-then-replace instead of the entry API (Go's map doesn't
// have an equivalent in-place upsert primitive).
type Executor struct {
	ctx     *codegen.Context
	opts    codegen.Options
	entries map[bus.ID]entry

	// Disassemble, if non-nil, receives the guest+host disassembly text for
	// every freshly compiled block (spec.md §4.3's "optionally write the
	// guest+host disassembly to a log sink"); wired to the
	// disassembly-logfile configuration flag by the gb runtime.
	Disassemble func(id bus.ID, text string)
}

// New returns an Executor that compiles with ctx and opts.
func New(ctx *codegen.Context, opts codegen.Options) *Executor {
	return &Executor{ctx: ctx, opts: opts, entries: make(map[bus.ID]entry)}
}

// Compile returns the cached block for page if its version still matches
// what's cached, otherwise decodes and compiles a fresh one and replaces
// the cache entry. Idempotent: compile(id, v) twice in a row without an
// intervening version bump returns the identical *block.Block both times.
func (e *Executor) Compile(page bus.Page) (*block.Block, error) {
	if cur, ok := e.entries[page.ID]; ok && cur.version == page.Version {
		return cur.block, nil
	}

	insts := decodePage(page.BaseAddr, page.Bytes)
	cg, err := codegen.CodegenBlock(page.BaseAddr, insts, e.ctx, e.opts)
	if err != nil {
		return nil, err
	}
	blk, err := block.New(cg)
	if err != nil {
		return nil, err
	}

	if e.Disassemble != nil {
		e.Disassemble(page.ID, blk.Disassemble(page.BaseAddr, insts))
	}

	// A page swapped out from under an in-flight entry (e.g. self
	// modification mid-block) leaks the stale block's executable mapping
	// rather than closing it here: the Gb runtime may still be inside it
	// when Compile is called again to resolve the post-write pc, and
	// closing would unmap code still on the host call stack. The block
	// cache owns every buffer it has ever produced for the process
	// lifetime per spec.md §4.3 — there is no eviction, so this is exactly
	// the documented lifetime, not a leak relative to spec.
	e.entries[page.ID] = entry{version: page.Version, block: blk}
	return blk, nil
}

// decodePage decodes every instruction starting at baseAddr out of bytes,
// appending an ir.Incomplete sentinel (rather than a normal decode) if the
// last instruction's bytes run past the end of bytes — the page-straddling
// case CodegenBlock's incomplete-instruction stub handles.
func decodePage(baseAddr uint16, bytes []byte) []ir.Instruction {
	var insts []ir.Instruction
	n := len(bytes)
	offset := 0
	for offset < n {
		b := bytes[offset]
		need := int(decode.StreamLen(b))
		avail := n - offset
		if need > avail {
			insts = append(insts, ir.Incomplete(b, uint8(need-1)))
			break
		}
		insts = append(insts, decode.Decode(bytes[offset:offset+need]))
		offset += need
	}
	return insts
}
