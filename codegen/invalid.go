package codegen

import (
	amd "github.com/sean-purcell/gbjit/internal/amd64"
	"github.com/sean-purcell/gbjit/ir"
)

// generateInvalid lowers one of the eleven undefined opcode bytes. These
// are never a compile-time error: the decoder already recorded the byte and
// gave the instruction a one-byte length and zero-cycle cost, so compiled
// code simply falls through to the next address, same as a real LR35902
// locking up would be a runtime concern, not a codegen one. Per-instruction
// tracing (when enabled) already logged the pc before this generator ran,
// so nothing further to emit here.
func generateInvalid(a *amd.Assembler, inst ir.Instruction, ctx *Context) EpilogueDescription {
	return EpilogueDescription{}
}
