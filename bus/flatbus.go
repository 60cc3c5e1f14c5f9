package bus

// FlatBus is a zero-frills 64 KiB flat address space, the bus equivalent of
// a test double: no cartridge bank switching, no I/O register side
// effects, a single page covering the whole address space. It exists to
// exercise the decoder/codegen/executor pipeline against real guest code
// without wiring up a cartridge loader or PPU.
type FlatBus struct {
	ram     [64 * 1024]byte
	version uint64
}

// NewFlatBus returns a FlatBus zeroed at version 0, with optional initial
// contents (e.g. a ROM image) copied in starting at address 0.
func NewFlatBus(initial []byte) *FlatBus {
	b := &FlatBus{}
	copy(b.ram[:], initial)
	return b
}

func (b *FlatBus) Read(addr uint16) uint8 { return b.ram[addr] }

func (b *FlatBus) Write(addr uint16, val uint8) {
	b.ram[addr] = val
	b.version++
}

func (b *FlatBus) Page(addr uint16) Page {
	return Page{
		ID:       ID{Kind: KindUnmapped, Bank: 0},
		Version:  b.version,
		BaseAddr: 0,
		Size:     0xffff,
		Bytes:    b.ram[:],
	}
}
