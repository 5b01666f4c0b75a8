package crypto

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/hashicorp/go-hclog"
)

// CandidateSets returns, for every key position, the key symbols that decrypt
// each ciphertext byte at that position (stride KeyLen) into the plaintext
// charset. Positions past the end of a short ciphertext keep every symbol.
func CandidateSets(ciphertext []byte) [][]byte {
	sets := make([][]byte, KeyLen)
	for offset := 0; offset < KeyLen; offset++ {
		sets[offset] = candidatesAt(ciphertext, offset)
	}
	return sets
}

func candidatesAt(ciphertext []byte, offset int) []byte {
	candidates := make([]byte, 0, len(KeyCharset))
	for i := 0; i < len(KeyCharset); i++ {
		symbol := KeyCharset[i]
		if decryptsColumn(ciphertext, offset, symbol) {
			candidates = append(candidates, symbol)
		}
	}
	return candidates
}

func decryptsColumn(ciphertext []byte, offset int, symbol byte) bool {
	for i := offset; i < len(ciphertext); i += KeyLen {
		if !printable[ciphertext[i]^symbol] {
			return false
		}
	}
	return true
}

// CandidateCount returns the size of the Cartesian product of the sets.
// The worst case (62^16) does not fit in a uint64.
func CandidateCount(sets [][]byte) *big.Int {
	count := big.NewInt(1)
	for _, set := range sets {
		count.Mul(count, big.NewInt(int64(len(set))))
	}
	return count
}

// FindKey brute forces the repeating XOR key of an encrypted JSON document.
//
// Keys are enumerated over the per-position candidate sets with the last
// position varying fastest; the first key whose decryption is valid JSON wins.
// found is false when the search space is exhausted. ctx is checked before
// every decrypt-and-parse attempt and its error is returned on cancellation.
func FindKey(ctx context.Context, ciphertext []byte, logger hclog.Logger) (key []byte, found bool, err error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	sets := CandidateSets(ciphertext)
	logger.Info("🔢 Keys to test", "count", CandidateCount(sets).String())

	for pos, set := range sets {
		if len(set) == 0 {
			logger.Debug("No candidate symbol for key position", "position", pos)
			return nil, false, nil
		}
	}

	// Positions past the end of the ciphertext never touch a byte, so only
	// their first symbol is tried. This yields the same first match as the
	// full product.
	active := KeyLen
	if len(ciphertext) < active {
		active = len(ciphertext)
	}

	indices := make([]int, KeyLen)
	candidate := make([]byte, KeyLen)
	for pos, set := range sets {
		candidate[pos] = set[0]
	}

	decrypted := make([]byte, len(ciphertext))
	tested := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("Key search cancelled", "tested", tested)
			return nil, false, err
		}

		xorInto(decrypted, candidate, ciphertext)
		tested++
		if json.Valid(decrypted) {
			logger.Info("🔑 Potential key found", "key", string(candidate), "tested", tested)
			return append([]byte(nil), candidate...), true, nil
		}

		if !nextCandidate(sets, indices, candidate, active) {
			break
		}
	}

	logger.Info("No key decrypts the response to JSON", "tested", tested)
	return nil, false, nil
}

// nextCandidate advances candidate like an odometer over the first active
// positions. It returns false once every combination has been produced.
func nextCandidate(sets [][]byte, indices []int, candidate []byte, active int) bool {
	for pos := active - 1; pos >= 0; pos-- {
		indices[pos]++
		if indices[pos] < len(sets[pos]) {
			candidate[pos] = sets[pos][indices[pos]]
			return true
		}
		indices[pos] = 0
		candidate[pos] = sets[pos][0]
	}
	return false
}
