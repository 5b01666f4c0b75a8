package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaintextCharsetSize(t *testing.T) {
	count := 0
	for b := 0; b < 256; b++ {
		if IsPrintable(byte(b)) {
			count++
		}
	}
	assert.Equal(t, 100, count)

	for _, b := range []byte{'\t', '\n', '\r', 0x0b, 0x0c, ' ', '~', '{', '"'} {
		assert.True(t, IsPrintable(b), "byte 0x%02x should be printable", b)
	}
	for _, b := range []byte{0x00, 0x08, 0x1f, 0x7f, 0x80, 0xff} {
		assert.False(t, IsPrintable(b), "byte 0x%02x should not be printable", b)
	}
}

func TestKeyCharset(t *testing.T) {
	assert.Len(t, KeyCharset, 62)
	for i := 0; i < len(KeyCharset); i++ {
		assert.True(t, isKeySymbol(KeyCharset[i]))
	}
}

func TestIsValidKey(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		valid bool
	}{
		{name: "alphanumeric", key: "HICNBkYSWCB8syRf", valid: true},
		{name: "too short", key: "HICNBkYSWCB8syR", valid: false},
		{name: "too long", key: "HICNBkYSWCB8syRfX", valid: false},
		{name: "punctuation", key: "HICNBkYSWCB8syR!", valid: false},
		{name: "empty", key: "", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidKey([]byte(tc.key)))
		})
	}
}
