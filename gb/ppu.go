package gb

import "github.com/sean-purcell/gbjit/bus"

// Screen dimensions and timing constants are real DMG hardware values;
// pixel composition is not (full peripheral accuracy is an explicit
// Non-goal — see spec.md §1).
const (
	ScreenWidth       = 160
	ScreenHeight      = 144
	cyclesPerScanline = 456
	scanlinesPerFrame = 154
	vramTileData      = 0x8000

	// CyclesPerFrame is the terminal cycle count of one DMG frame
	// (70224 T-cycles at 4.19MHz / 59.7fps).
	CyclesPerFrame = cyclesPerScanline * scanlinesPerFrame
)

// ppu schedules scanline/vblank events at the real hardware cadence, but
// renders each visible line by sampling VRAM tile bytes directly into a
// grayscale framebuffer rather than compositing background/window/sprite
// layers — enough to prove a ROM is producing changing video output without
// pulling in a full PPU pipeline that spec.md §1 excludes.
type ppu struct {
	bus         bus.Bus
	line        uint16
	Framebuffer [ScreenHeight][ScreenWidth]byte
}

func newPpu(b bus.Bus) *ppu { return &ppu{bus: b} }

// advanceScanline renders the current line (if visible) and moves to the
// next one, wrapping at the end of the frame.
func (p *ppu) advanceScanline() {
	if p.line < ScreenHeight {
		base := vramTileData + p.line*ScreenWidth/8
		for x := 0; x < ScreenWidth; x++ {
			p.Framebuffer[p.line][x] = p.bus.Read(base + uint16(x)/8)
		}
	}
	p.line = (p.line + 1) % scanlinesPerFrame
}
