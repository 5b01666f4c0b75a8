package pkg

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "PrXIXajkAqaRRaOb"

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "api_test",
		Level: hclog.Debug,
	})
}

// encryptedDevice serves the fixture XORed with testKey on encrypted=1.
func encryptedDevice(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	plain, err := os.ReadFile("testdata/washing_machine_crlf.json")
	require.NoError(t, err)
	ct, err := crypto.Transform([]byte(testKey), plain)
	require.NoError(t, err)
	body := hex.EncodeToString(ct)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("encrypted") == "1" {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(`{"response":"BAD REQUEST"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, strings.TrimPrefix(srv.URL, "http://")
}

func TestPollDevice(t *testing.T) {
	_, ip := encryptedDevice(t)

	s, err := PollDevice(context.Background(), ip, true, []byte(testKey), testLogger())
	require.NoError(t, err)
	assert.Equal(t, status.KindWashingMachine, s.Kind())
}

func TestCaptureAndCrack(t *testing.T) {
	_, ip := encryptedDevice(t)

	for _, name := range []string{"resp.hex", "resp.hex.gz", "resp.hex.bz2"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			n, err := CaptureResponse(context.Background(), ip, true, path, testLogger())
			require.NoError(t, err)
			assert.Positive(t, n)

			result, err := CrackCapture(context.Background(), path, testLogger())
			require.NoError(t, err)
			assert.Equal(t, detect.Encryption, result.Mode)
			assert.Equal(t, testKey, string(result.Key))
		})
	}
}

func TestCrackCapturePlainHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.hex")
	require.NoError(t, os.WriteFile(path, []byte(hex.EncodeToString([]byte(`{"statusForno":{}}`))+"\n"), 0600))

	result, err := CrackCapture(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, detect.EncryptionWithoutKey, result.Mode)
}

func TestCrackCaptureErrors(t *testing.T) {
	dir := t.TempDir()

	notHex := filepath.Join(dir, "bad.hex")
	require.NoError(t, os.WriteFile(notHex, []byte("not hex"), 0600))
	_, err := CrackCapture(context.Background(), notHex, nil)
	assert.True(t, errors.Is(err, candyerrors.ErrKeyRecoveryFailed))

	noKey := filepath.Join(dir, "nokey.hex")
	require.NoError(t, os.WriteFile(noKey, []byte(strings.Repeat("80", 64)), 0600))
	_, err = CrackCapture(context.Background(), noKey, nil)
	assert.True(t, errors.Is(err, candyerrors.ErrKeyRecoveryFailed))

	_, err = CrackCapture(context.Background(), filepath.Join(dir, "missing.hex"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDetectDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the probe delay")
	}
	_, ip := encryptedDevice(t)

	result, err := DetectDevice(context.Background(), ip, testLogger())
	require.NoError(t, err)
	assert.Equal(t, detect.Encryption, result.Mode)
	assert.Equal(t, testKey, string(result.Key))
}
