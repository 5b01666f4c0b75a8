// Package crypto implements the repeating-key XOR used by Candy appliances and
// recovers unknown keys from encrypted status responses.
package crypto

import (
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
)

// Transform applies repeating-key XOR to data and returns a new slice.
// XOR is its own inverse, so the same call encrypts and decrypts.
func Transform(key, data []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, candyerrors.ErrInvalidKey
	}
	out := make([]byte, len(data))
	xorInto(out, key, data)
	return out, nil
}

// xorInto writes data XOR key into dst. dst must be at least len(data) long.
func xorInto(dst, key, data []byte) {
	keyLen := len(key)
	for i, b := range data {
		dst[i] = b ^ key[i%keyLen]
	}
}
