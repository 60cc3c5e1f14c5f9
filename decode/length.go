// Package decode turns a guest instruction stream into ir.Instruction
// values: first StreamLen to know how many bytes to fetch, then Decode
// (or decodeCB for the 0xCB prefix escape) to build the IR node.
package decode

// invalid lists the eleven undefined LR35902 opcodes. A byte in this set
// always decodes to ir.Invalid regardless of what follows it.
var invalid = [11]byte{211, 219, 221, 227, 228, 235, 236, 237, 244, 252, 253}

// threeByte lists the seventeen opcodes that consume two operand bytes
// (three bytes total: opcode + 16-bit immediate, or opcode + two 8-bit
// operands for the CALL/JP cc family).
var threeByte = [17]byte{1, 17, 33, 49, 8, 194, 210, 195, 196, 212, 202, 218, 234, 250, 204, 220, 205}

// twoByte lists the twenty-nine opcodes that consume one operand byte.
var twoByte = [29]byte{
	6, 14, 16, 22, 24, 30, 32, 38, 40, 46, 48, 54, 56, 62,
	198, 203, 206, 214, 222, 224, 226, 230, 232, 238, 240, 242, 246, 248, 254,
}

var lengthTable [256]uint8

func init() {
	for i := range lengthTable {
		lengthTable[i] = 1
	}
	for _, b := range invalid {
		lengthTable[b] = 0
	}
	for _, b := range threeByte {
		lengthTable[b] = 3
	}
	for _, b := range twoByte {
		lengthTable[b] = 2
	}
}

// BytesRequired reports how many bytes the instruction starting with opcode
// byte b occupies: 0 means b is one of the eleven undefined opcodes (still
// one byte in the stream, but the encoding carries no operand and decodes to
// ir.Invalid), 1/2/3 otherwise. Note b == 0xCB (length 1 here) is the CB
// prefix escape and is special-cased by Decode, which then consumes one more
// byte via the CB-prefixed table.
func BytesRequired(b byte) uint8 {
	return lengthTable[b]
}

// IsInvalid reports whether b is one of the eleven undefined opcodes.
func IsInvalid(b byte) bool {
	return lengthTable[b] == 0
}

// StreamLen reports how many bytes b's instruction actually occupies in the
// guest byte stream, unlike BytesRequired: 0xCB (length 1 in lengthTable,
// since that table only sizes the prefix byte itself) reports 2, and an
// invalid opcode (length 0 in lengthTable) reports 1 — both decode to a
// complete ir.Instruction from exactly that many bytes. Used by the
// executor's page decoder to find where one instruction ends and the next
// begins, and by the one-off table to size each leading byte's completion
// set.
func StreamLen(b byte) uint8 {
	if b == 0xCB {
		return 2
	}
	if IsInvalid(b) {
		return 1
	}
	return BytesRequired(b)
}
