package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesRequired(t *testing.T) {
	seen := [256]bool{}
	for _, b := range invalid {
		assert.False(t, seen[b])
		assert.Equal(t, uint8(0), BytesRequired(b))
		assert.True(t, IsInvalid(b))
		seen[b] = true
	}
	for _, b := range threeByte {
		assert.False(t, seen[b])
		assert.Equal(t, uint8(3), BytesRequired(b))
		seen[b] = true
	}
	for _, b := range twoByte {
		assert.False(t, seen[b])
		assert.Equal(t, uint8(2), BytesRequired(b))
		seen[b] = true
	}
	for i := 0; i < 256; i++ {
		if seen[i] {
			continue
		}
		assert.Equal(t, uint8(1), BytesRequired(byte(i)), "opcode 0x%02x", i)
	}
}

func TestStreamLen(t *testing.T) {
	assert.Equal(t, uint8(2), StreamLen(0xCB))
	for _, b := range invalid {
		assert.Equal(t, uint8(1), StreamLen(b))
	}
	for _, b := range twoByte {
		assert.Equal(t, uint8(2), StreamLen(b))
	}
	for _, b := range threeByte {
		assert.Equal(t, uint8(3), StreamLen(b))
	}
}
