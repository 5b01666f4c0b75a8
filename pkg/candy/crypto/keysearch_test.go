package crypto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "keysearch_test",
		Level: hclog.Trace,
	})
}

func loadStatusFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/washing_machine_crlf.json")
	require.NoError(t, err)
	require.True(t, json.Valid(data))
	return data
}

func mustTransform(t *testing.T, key, data []byte) []byte {
	t.Helper()
	out, err := Transform(key, data)
	require.NoError(t, err)
	return out
}

func TestFindKeyRecoversGeneratingKey(t *testing.T) {
	logger := testLogger()
	plaintext := loadStatusFixture(t)

	for _, key := range []string{"HICNBkYSWCB8syRf", "CzlityiJuJpzxZYf", "PrXIXajkAqaRRaOb"} {
		t.Run(key, func(t *testing.T) {
			ciphertext := mustTransform(t, []byte(key), plaintext)

			found, ok, err := FindKey(context.Background(), ciphertext, logger)
			require.NoError(t, err)
			require.True(t, ok, "expected a key to be found")
			assert.Equal(t, key, string(found))
			assert.Equal(t, plaintext, mustTransform(t, found, ciphertext))
		})
	}
}

func TestFindKeyIsDeterministic(t *testing.T) {
	ciphertext := mustTransform(t, []byte("CzlityiJuJpzxZYf"), loadStatusFixture(t))

	first, ok1, err1 := FindKey(context.Background(), ciphertext, nil)
	second, ok2, err2 := FindKey(context.Background(), ciphertext, nil)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestFindKeyShortCiphertext(t *testing.T) {
	key := []byte("HICNBkYSWCB8syRf")
	ciphertext := mustTransform(t, key, []byte("[1]"))

	found, ok, err := FindKey(context.Background(), ciphertext, testLogger())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, found, KeyLen)

	assert.True(t, json.Valid(mustTransform(t, found, ciphertext)))
	// Unconstrained positions keep the first symbol of the charset.
	assert.Equal(t, bytes.Repeat([]byte{'A'}, KeyLen-len(ciphertext)), found[len(ciphertext):])
}

func TestFindKeyNotFound(t *testing.T) {
	testCases := []struct {
		name       string
		ciphertext []byte
	}{
		{
			// 0x80+ XOR an ASCII symbol never lands in the plaintext charset.
			name:       "high bytes",
			ciphertext: bytes.Repeat([]byte{0x80, 0x91, 0xA2, 0xB3, 0xC4, 0xD5, 0xE6, 0xF7}, 4),
		},
		{
			name:       "empty",
			ciphertext: []byte{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found, ok, err := FindKey(context.Background(), tc.ciphertext, testLogger())
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, found)
		})
	}
}

func TestFindKeyCancelled(t *testing.T) {
	// Every symbol passes every position and no key yields JSON early on.
	ciphertext := make([]byte, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := FindKey(ctx, ciphertext, testLogger())
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFindKeyDeadline(t *testing.T) {
	ciphertext := make([]byte, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, ok, err := FindKey(ctx, ciphertext, nil)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCandidateSetsContainGeneratingKey(t *testing.T) {
	plaintext := loadStatusFixture(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		key := make([]byte, KeyLen)
		for j := range key {
			key[j] = KeyCharset[rng.Intn(len(KeyCharset))]
		}

		sets := CandidateSets(mustTransform(t, key, plaintext))
		for pos, set := range sets {
			assert.Contains(t, string(set), string(key[pos]), "key %s lost at position %d", key, pos)
		}
	}
}

func TestCandidateSetsUnconstrained(t *testing.T) {
	sets := CandidateSets([]byte{0x00, 0x00})
	for pos, set := range sets {
		assert.Equal(t, KeyCharset, string(set), "position %d", pos)
	}

	expected := new(big.Int).Exp(big.NewInt(62), big.NewInt(16), nil)
	assert.Equal(t, 0, expected.Cmp(CandidateCount(sets)))
}

func TestCandidateCount(t *testing.T) {
	sets := [][]byte{[]byte("AB"), []byte("xyz"), []byte("0")}
	assert.Equal(t, "6", CandidateCount(sets).String())

	sets = append(sets, []byte{})
	assert.Equal(t, "0", CandidateCount(sets).String())
}
