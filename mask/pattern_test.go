package mask

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternEnumerateMatchesTest(t *testing.T) {
	p := ParsePattern("bc'e'f'h + abcd'efgh")

	values := p.Enumerate()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	expect := []byte{65, 67, 81, 83, 193, 195, 209, 211, 239}
	assert.Equal(t, expect, values)

	for i := 0; i <= 255; i++ {
		contains := false
		for _, v := range values {
			if int(v) == i {
				contains = true
				break
			}
		}
		assert.Equal(t, contains, p.Test(byte(i)), "byte %d", i)
	}
}

func TestPatternSingle(t *testing.T) {
	p := Single(0x42)
	assert.True(t, p.Test(0x42))
	assert.False(t, p.Test(0x43))
	assert.Equal(t, []byte{0x42}, p.Enumerate())
}
