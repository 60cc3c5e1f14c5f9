// Package oneoff builds and resolves the pre-compiled per-leading-byte
// completion tables spec.md §3/§4.2 calls the OneoffTable: for every
// possible 1- or 2-byte completion of every opcode, a self-contained
// snippet that executes that single guest instruction and returns,
// addressable by the trailing bytes an incomplete-instruction stub fetches
// at runtime.
package oneoff

import (
	"fmt"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/sean-purcell/gbjit/block"
	"github.com/sean-purcell/gbjit/codegen"
	"github.com/sean-purcell/gbjit/decode"
	"github.com/sean-purcell/gbjit/ir"
)

// subtable holds one leading byte's completion set: the executable snippet
// buffer and the absolute entry address of each completion, indexed by the
// trailing byte(s) interpreted as an integer (low byte first).
type subtable struct {
	exec  *block.Executable
	addrs []uint64
}

// Table is the full 256-entry OneoffTable, immutable once Build returns
// (spec.md §5's "after generation, the table is read-only").
type Table struct {
	subtables [256]subtable
}

// completionCount reports how many completions leading byte b has: 1 for
// an undefined opcode or a one-byte instruction (no trailing bytes needed,
// it's already fully decoded), 256 for a one-trailing-byte instruction
// (including the 0xCB prefix, whose "instruction" for this purpose is
// whatever the second byte selects), 65536 for a two-trailing-byte
// instruction.
func completionCount(b byte) int {
	switch {
	case decode.IsInvalid(b), decode.StreamLen(b) == 1:
		return 1
	case b == 0xCB, decode.StreamLen(b) == 2:
		return 256
	default:
		return 65536
	}
}

// Build compiles every subtable, one goroutine per leading byte (spec.md §5:
// "may be parallelized across the 256 leading bytes; each subtable is
// independent"). golang.org/x/sync/errgroup — already the teacher's
// indirect x/sync dependency, promoted to direct — gives first-error
// propagation across the pool the same way it does in any Go program
// fanning out bounded independent work, the idiomatic replacement for the
// original's rayon::par_iter.
func Build(ctx *codegen.Context) (*Table, error) {
	t := &Table{}
	var g errgroup.Group
	for i := 0; i < 256; i++ {
		b := byte(i)
		g.Go(func() error {
			sub, err := buildSubtable(b, ctx)
			if err != nil {
				return fmt.Errorf("oneoff: leading byte 0x%02x: %w", b, err)
			}
			t.subtables[b] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

func buildSubtable(b byte, ctx *codegen.Context) (subtable, error) {
	n := completionCount(b)
	insts := make([]ir.Instruction, n)
	for i := 0; i < n; i++ {
		var buf [3]byte
		buf[0] = b
		switch n {
		case 256:
			buf[1] = byte(i)
		case 65536:
			buf[1] = byte(i)
			buf[2] = byte(i >> 8)
		}
		insts[i] = decode.Decode(buf[:])
	}

	cg, err := codegen.CodegenOneoffs(insts, ctx)
	if err != nil {
		return subtable{}, err
	}
	exec, err := block.NewExecutable(cg.Code)
	if err != nil {
		return subtable{}, err
	}
	addrs := make([]uint64, n)
	base := uint64(exec.Addr())
	for i, off := range cg.InstOffsets {
		addrs[i] = base + uint64(off)
	}
	return subtable{exec: exec, addrs: addrs}, nil
}

// Entry returns the absolute address of the snippet for leading byte b's
// completion selected by trailing (masked to however many trailing bytes
// that leading byte's instructions actually consume).
func (t *Table) Entry(leading byte, trailing uint16) uint64 {
	sub := &t.subtables[leading]
	idx := int(trailing) % len(sub.addrs)
	return sub.addrs[idx]
}

// registry maps the opaque ctx handles handed to compiled code back to the
// Table they were minted for, the same handle-table indirection bus.Erase
// uses for the read/write thunks: compiled code never holds a real pointer
// to a Table, only an integer handle and the fixed resolve() address.
var registry []*Table

// Erase registers t and returns the opaque ctx handle plus the resolver
// thunk's address codegen.Context.OneoffResolveAddr expects — the function
// the incomplete-instruction stub calls into to turn (leading byte,
// trailing bytes) into a concrete snippet address.
func Erase(t *Table) (ctx uintptr, resolveAddr uint64) {
	registry = append(registry, t)
	handle := uintptr(len(registry) - 1)
	return handle, reflect.ValueOf(resolve).Pointer()
}

func resolve(leading uint16, trailing uint16, ctx uintptr) uint64 {
	return registry[ctx].Entry(byte(leading), trailing)
}
