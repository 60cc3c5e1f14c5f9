package amd64

// Byte-sized (8-bit) operand forms: the ALU half-register bodies, CB-prefixed
// rotate/shift family, and the handful of single-byte flag instructions
// spec.md §4.2 calls for (stc/cmc for SCF/CCF, lahf/sahf for the guest
// flags byte, sahf also seeding ADC/SBC's carry-in). Mirrors the 64-bit forms above one-for-one; the
// only wrinkle is that AH/BH/CH/DH are reachable only when no REX prefix is
// emitted (RegA/RegBC/RegDE/RegHL never need one), while r8b-r15b always do.

// aluR8R8 emits a two-operand 8-bit ALU op of the `op r/m8, r8` form
// (opcode selects ADD/OR/ADC/SBB/AND/SUB/XOR/CMP's "Eb,Gb" encoding).
func (a *Assembler) aluR8R8(opcode byte, dst, src Reg64) {
	if dst.needsREX() || src.needsREX() {
		a.emit(rex(false, src.needsREX(), false, dst.needsREX()))
	}
	a.emit(opcode, modrm(3, byte(src), byte(dst)))
}

// AddR8R8 emits `add dst8, src8`.
func (a *Assembler) AddR8R8(dst, src Reg64) { a.aluR8R8(0x00, dst, src) }

// AdcR8R8 emits `adc dst8, src8` (adds src plus the carry flag).
func (a *Assembler) AdcR8R8(dst, src Reg64) { a.aluR8R8(0x10, dst, src) }

// SubR8R8 emits `sub dst8, src8`.
func (a *Assembler) SubR8R8(dst, src Reg64) { a.aluR8R8(0x28, dst, src) }

// SbbR8R8 emits `sbb dst8, src8` (subtracts src plus the carry flag).
func (a *Assembler) SbbR8R8(dst, src Reg64) { a.aluR8R8(0x18, dst, src) }

// AndR8R8 emits `and dst8, src8`.
func (a *Assembler) AndR8R8(dst, src Reg64) { a.aluR8R8(0x20, dst, src) }

// OrR8R8 emits `or dst8, src8`.
func (a *Assembler) OrR8R8(dst, src Reg64) { a.aluR8R8(0x08, dst, src) }

// XorR8R8 emits `xor dst8, src8`.
func (a *Assembler) XorR8R8(dst, src Reg64) { a.aluR8R8(0x30, dst, src) }

// CmpR8R8 emits `cmp dst8, src8`.
func (a *Assembler) CmpR8R8(dst, src Reg64) { a.aluR8R8(0x38, dst, src) }

// TestR8R8 emits `test dst8, src8`.
func (a *Assembler) TestR8R8(dst, src Reg64) { a.aluR8R8(0x84, dst, src) }

// MovR8R8 emits `mov dst8, src8`.
func (a *Assembler) MovR8R8(dst, src Reg64) { a.aluR8R8(0x88, dst, src) }

// MovR8Imm8 emits `mov dst8, imm8` (B0+r ib).
func (a *Assembler) MovR8Imm8(dst Reg64, imm uint8) {
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xB0+dst.low3(), imm)
}

// aluR8Imm8 emits a one-operand-plus-immediate 8-bit ALU op of the `op r/m8,
// imm8` form (opcode 80, /digit selects add/or/adc/sbb/and/sub/xor/cmp).
func (a *Assembler) aluR8Imm8(digit byte, dst Reg64, imm uint8) {
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x80, modrm(3, digit, byte(dst)), imm)
}

// CmpR8Imm8 emits `cmp dst8, imm8` (80 /7 ib).
func (a *Assembler) CmpR8Imm8(dst Reg64, imm uint8) { a.aluR8Imm8(7, dst, imm) }

// OrR8Imm8 emits `or dst8, imm8` (80 /1 ib) — used to OR the synthetic guest
// N flag bit into the stored LAHF-format flags byte.
func (a *Assembler) OrR8Imm8(dst Reg64, imm uint8) { a.aluR8Imm8(1, dst, imm) }

// AndR8Imm8 emits `and dst8, imm8` (80 /4 ib) — used to clear the synthetic
// guest N flag bit.
func (a *Assembler) AndR8Imm8(dst Reg64, imm uint8) { a.aluR8Imm8(4, dst, imm) }

// AddR8Imm8 emits `add dst8, imm8` (80 /0 ib) — the DAA nibble corrections.
func (a *Assembler) AddR8Imm8(dst Reg64, imm uint8) { a.aluR8Imm8(0, dst, imm) }

// SubR8Imm8 emits `sub dst8, imm8` (80 /5 ib) — the DAA nibble corrections.
func (a *Assembler) SubR8Imm8(dst Reg64, imm uint8) { a.aluR8Imm8(5, dst, imm) }

// digitR8 emits a single-operand 8-bit instruction whose opcode family uses
// the ModRM reg field as an operation selector (the D0/D2/F6/FE groups).
func (a *Assembler) digitR8(opcode, digit byte, reg Reg64) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(opcode, modrm(3, digit, byte(reg)))
}

// IncR8 emits `inc reg8` (FE /0).
func (a *Assembler) IncR8(reg Reg64) { a.digitR8(0xFE, 0, reg) }

// DecR8 emits `dec reg8` (FE /1).
func (a *Assembler) DecR8(reg Reg64) { a.digitR8(0xFE, 1, reg) }

// RolR8 emits `rol reg8, 1` — rotate left without the carry flag, the body
// of the CB-prefixed RLC family.
func (a *Assembler) RolR8(reg Reg64) { a.digitR8(0xD0, 0, reg) }

// RorR8 emits `ror reg8, 1` (RRC family).
func (a *Assembler) RorR8(reg Reg64) { a.digitR8(0xD0, 1, reg) }

// RclR8 emits `rcl reg8, 1` — rotate left through the carry flag, the body
// of the CB-prefixed RL family (distinct from RLC: the guest carry feeds
// back in as the vacated low bit).
func (a *Assembler) RclR8(reg Reg64) { a.digitR8(0xD0, 2, reg) }

// RcrR8 emits `rcr reg8, 1` (RR family).
func (a *Assembler) RcrR8(reg Reg64) { a.digitR8(0xD0, 3, reg) }

// ShlR8 emits `shl reg8, 1` — the SLA body.
func (a *Assembler) ShlR8(reg Reg64) { a.digitR8(0xD0, 4, reg) }

// ShrR8 emits `shr reg8, 1` — the SRL body (logical, clears bit 7).
func (a *Assembler) ShrR8(reg Reg64) { a.digitR8(0xD0, 5, reg) }

// SarR8 emits `sar reg8, 1` — the SRA body (arithmetic, preserves bit 7).
func (a *Assembler) SarR8(reg Reg64) { a.digitR8(0xD0, 7, reg) }

// NotR8 emits `not reg8` (F6 /2).
func (a *Assembler) NotR8(reg Reg64) { a.digitR8(0xF6, 2, reg) }

// Stc emits `stc` (set the carry flag), used by SCF before `lahf` caches
// the flags.
func (a *Assembler) Stc() { a.emit(0xF9) }

// Clc emits `clc` (clear the carry flag).
func (a *Assembler) Clc() { a.emit(0xF8) }

// Cmc emits `cmc` (complement the carry flag, the CCF body).
func (a *Assembler) Cmc() { a.emit(0xF5) }

// MovzxR32R8 emits `movzx dst32, src8` (zero-extends a byte into a 32-bit
// register, clearing the upper 32 bits of the full 64-bit register too).
func (a *Assembler) MovzxR32R8(dst, src Reg64) {
	if dst.needsREX() || src.needsREX() {
		a.emit(rex(false, dst.needsREX(), false, src.needsREX()))
	}
	a.emit(0x0F, 0xB6, modrm(3, byte(dst), byte(src)))
}

// MovR16Imm16 emits a 16-bit `mov reg16, imm16` (66 prefix + B8+r iw).
func (a *Assembler) MovR16Imm16(dst Reg64, imm uint16) {
	a.emit(0x66)
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xB8 + dst.low3())
	a.emit16(imm)
}

// MovR16R16 emits `mov dst16, src16`.
func (a *Assembler) MovR16R16(dst, src Reg64) {
	a.emit(0x66)
	a.emit(rex(false, src.needsREX(), false, dst.needsREX()), 0x89, modrm(3, byte(src), byte(dst)))
}

// MovR16Mem emits `mov dst16, [base+disp32]`.
func (a *Assembler) MovR16Mem(dst, base Reg64, disp int32) {
	a.emit(0x66)
	a.emit(rex(false, dst.needsREX(), false, base.needsREX()), 0x8B)
	a.emitModRMDisp(byte(dst), base, disp)
}

// MovMemR16 emits `mov [base+disp32], src16`.
func (a *Assembler) MovMemR16(base Reg64, disp int32, src Reg64) {
	a.emit(0x66)
	a.emit(rex(false, src.needsREX(), false, base.needsREX()), 0x89)
	a.emitModRMDisp(byte(src), base, disp)
}

// AddR16Imm16 emits `add dst16, imm16`.
func (a *Assembler) AddR16Imm16(dst Reg64, imm uint16) {
	a.emit(0x66)
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x81, modrm(3, 0, byte(dst)))
	a.emit16(imm)
}

// SubR16Imm16 emits `sub dst16, imm16`.
func (a *Assembler) SubR16Imm16(dst Reg64, imm uint16) {
	a.emit(0x66)
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x81, modrm(3, 5, byte(dst)))
	a.emit16(imm)
}

// AddR16R16 emits `add dst16, src16`.
func (a *Assembler) AddR16R16(dst, src Reg64) {
	a.emit(0x66)
	a.emit(rex(false, src.needsREX(), false, dst.needsREX()), 0x01, modrm(3, byte(src), byte(dst)))
}

// CmpR16Imm16 emits `cmp dst16, imm16`.
func (a *Assembler) CmpR16Imm16(dst Reg64, imm uint16) {
	a.emit(0x66)
	if dst.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0x81, modrm(3, 7, byte(dst)))
	a.emit16(imm)
}

// IncR16 emits `inc reg16`.
func (a *Assembler) IncR16(reg Reg64) {
	a.emit(0x66)
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xFF, modrm(3, 0, byte(reg)))
}

// DecR16 emits `dec reg16`.
func (a *Assembler) DecR16(reg Reg64) {
	a.emit(0x66)
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xFF, modrm(3, 1, byte(reg)))
}

// JmpReg emits an indirect `jmp reg` (FF /4), used for JP (HL).
func (a *Assembler) JmpReg(reg Reg64) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xFF, modrm(3, 4, byte(reg)))
}

// CallReg emits an indirect `call reg` (FF /2).
func (a *Assembler) CallReg(reg Reg64) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xFF, modrm(3, 2, byte(reg)))
}

// MovR64R32Zx emits `mov dst32, src32` which on amd64 implicitly zero-extends
// into the upper 32 bits of the 64-bit register — the standard idiom for
// widening a 16-bit guest value already sitting in a 32-bit view.
func (a *Assembler) MovR64R32Zx(dst, src Reg64) {
	if dst.needsREX() || src.needsREX() {
		a.emit(rex(false, dst.needsREX(), false, src.needsREX()))
	}
	a.emit(0x89, modrm(3, byte(src), byte(dst)))
}

// Byte-register aliases sharing the ModRM low-3-bits encoding with the
// matching 64-bit name: AL/CL/DL/BL need no REX; AH/CH/DH/BH are the
// ModRM-field-4..7 forms only reachable when no REX prefix is emitted
// (field 4 collides with RSP, 5 with RBP, 6 with RSI, 7 with RDI — the same
// coincidence real x86 encodes operand size through). Only use the AH/CH/
// DH/BH aliases in an 8-bit op whose other operand also needs no REX.
const (
	AL = RAX
	CL = RCX
	DL = RDX
	BL = RBX
	AH = RSP
	CH = RBP
	DH = RSI
	BH = RDI
)

// ShlR8Imm8 emits `shl reg8, imm8` (C0 /4 ib).
func (a *Assembler) ShlR8Imm8(reg Reg64, imm uint8) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xC0, modrm(3, 4, byte(reg)), imm)
}

// ShrR8Imm8 emits `shr reg8, imm8` (C0 /5 ib).
func (a *Assembler) ShrR8Imm8(reg Reg64, imm uint8) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xC0, modrm(3, 5, byte(reg)), imm)
}

// RolR8Imm8 emits `rol reg8, imm8` (C0 /0 ib) — the SWAP body (rotate by 4
// swaps a byte's nibbles).
func (a *Assembler) RolR8Imm8(reg Reg64, imm uint8) {
	if reg.needsREX() {
		a.emit(rex(false, false, false, true))
	}
	a.emit(0xC0, modrm(3, 0, byte(reg)), imm)
}

// MovzxR32Mem8 emits `movzx dst32, byte [base+disp32]`.
func (a *Assembler) MovzxR32Mem8(dst, base Reg64, disp int32) {
	a.emit(rex(false, dst.needsREX(), false, base.needsREX()), 0x0F, 0xB6)
	a.emitModRMDisp(byte(dst), base, disp)
}

// MovMem8R8 emits `mov byte [base+disp32], src8`.
func (a *Assembler) MovMem8R8(base Reg64, disp int32, src Reg64) {
	if src.needsREX() || base.needsREX() {
		a.emit(rex(false, src.needsREX(), false, base.needsREX()))
	}
	a.emit(0x88)
	a.emitModRMDisp(byte(src), base, disp)
}
