package decode

import (
	"testing"

	"github.com/sean-purcell/gbjit/mask"
	"github.com/stretchr/testify/assert"
)

// These patterns are the literal sum-of-products expressions from the
// original decoder's byte_count.rs, preserved here only to cross-check that
// lengthTable (decode/length.go) agrees with them byte-for-byte. The
// lengthTable literal list is what the decoder actually uses at runtime.
var (
	invalidKmap = mask.ParsePattern("abc'df'gh + abdefg'h + abcd'f'gh + abcfg'h' + abcefg'")
	threeKmap   = mask.ParsePattern("a'b'e'f'g'h + a'b'c'd'ef'g'h' + abfg'h' + abefg' + abef'gh' + abc'e'f'g")
	twoKmap     = mask.ParsePattern("a'b'fgh' + abch' + a'b'df'g'h' + a'b'cf'g'h' + abgh' + abd'f'g")
)

func TestLengthTableMatchesKmap(t *testing.T) {
	for i := 0; i <= 255; i++ {
		b := byte(i)
		want := uint8(1)
		switch {
		case invalidKmap.Test(b):
			want = 0
		case threeKmap.Test(b):
			want = 3
		case twoKmap.Test(b):
			want = 2
		}
		assert.Equal(t, want, lengthTable[b], "opcode 0x%02x", b)
	}
}

func TestInvalidSetSize(t *testing.T) {
	assert.ElementsMatch(t, invalidKmap.Enumerate(), invalid[:])
}

// The three- and two-byte kmaps treat the higher-priority sets (invalid,
// then three-byte) as don't-cares, so their raw enumerations overlap them;
// the literal tables hold only what remains after that priority order.
func TestThreeByteSetSize(t *testing.T) {
	var want []byte
	for _, b := range threeKmap.Enumerate() {
		if !invalidKmap.Test(b) {
			want = append(want, b)
		}
	}
	assert.ElementsMatch(t, want, threeByte[:])
}

func TestTwoByteSetSize(t *testing.T) {
	var want []byte
	for _, b := range twoKmap.Enumerate() {
		if !invalidKmap.Test(b) && !threeKmap.Test(b) {
			want = append(want, b)
		}
	}
	assert.ElementsMatch(t, want, twoByte[:])
}
