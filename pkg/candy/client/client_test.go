package client

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "HICNBkYSWCB8syRf"

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "client_test",
		Level: hclog.Trace,
	})
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/washing_machine_crlf.json")
	require.NoError(t, err)
	return data
}

func encrypt(t *testing.T, plain []byte) string {
	t.Helper()
	ct, err := crypto.Transform([]byte(testKey), plain)
	require.NoError(t, err)
	return hex.EncodeToString(ct)
}

// device serves a fixed body per endpoint and counts requests.
type device struct {
	plain     string
	encrypted string
	requests  atomic.Int32

	mu      sync.Mutex
	queries []string
}

func (d *device) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.requests.Add(1)
	if r.URL.Path != "/http-read.json" {
		http.NotFound(w, r)
		return
	}
	d.mu.Lock()
	d.queries = append(d.queries, r.URL.RawQuery)
	d.mu.Unlock()
	w.Header().Set("Content-Type", "text/html")
	if r.URL.Query().Get("encrypted") == "1" {
		_, _ = w.Write([]byte(d.encrypted))
		return
	}
	_, _ = w.Write([]byte(d.plain))
}

func newTestClient(srv *httptest.Server, key string, useEncryption bool) *Client {
	c := New(strings.TrimPrefix(srv.URL, "http://"), []byte(key), useEncryption, testLogger())
	c.NewBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestStatusURL(t *testing.T) {
	assert.Equal(t, "http://192.168.1.20/http-read.json?encrypted=0", StatusURL("192.168.1.20", false))
	assert.Equal(t, "http://192.168.1.20/http-read.json?encrypted=1", StatusURL("192.168.1.20", true))
}

func TestStatusModes(t *testing.T) {
	plain := fixture(t)

	testCases := []struct {
		name          string
		dev           *device
		key           string
		useEncryption bool
	}{
		{name: "no encryption", dev: &device{plain: string(plain)}},
		{name: "encryption", dev: &device{encrypted: encrypt(t, plain)}, key: testKey, useEncryption: true},
		{name: "encryption without key", dev: &device{encrypted: hex.EncodeToString(plain)}, useEncryption: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.dev)
			defer srv.Close()

			s, err := newTestClient(srv, tc.key, tc.useEncryption).Status(context.Background())
			require.NoError(t, err)

			wm, ok := s.(*status.WashingMachineStatus)
			require.True(t, ok, "got %T", s)
			assert.Equal(t, status.MachineIdle, wm.MachineState)
			assert.Equal(t, 800, wm.SpinSpeed)
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	plain := fixture(t)

	doc, err := DecodeResponse([]byte(encrypt(t, plain)), true, []byte(testKey))
	require.NoError(t, err)
	assert.Contains(t, doc, "statusLavatrice")

	_, err = DecodeResponse([]byte("zz"), true, nil)
	assert.True(t, errors.Is(err, candyerrors.ErrMalformedResponse))

	_, err = DecodeResponse([]byte(hex.EncodeToString(plain)), true, []byte("AAAAAAAAAAAAAAAA"))
	assert.True(t, errors.Is(err, candyerrors.ErrMalformedResponse))

	_, err = DecodeResponse([]byte("<html></html>"), false, nil)
	assert.True(t, errors.Is(err, candyerrors.ErrMalformedResponse))
}

func TestStatusWithRetryRecovers(t *testing.T) {
	plain := fixture(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			_, _ = w.Write([]byte("{garbage"))
			return
		}
		_, _ = w.Write(plain)
	}))
	defer srv.Close()

	s, err := newTestClient(srv, "", false).StatusWithRetry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.KindWashingMachine, s.Kind())
	assert.Equal(t, int32(3), calls.Load())
}

func TestStatusWithRetryGivesUp(t *testing.T) {
	dev := &device{plain: "{garbage"}
	srv := httptest.NewServer(dev)
	defer srv.Close()

	_, err := newTestClient(srv, "", false).StatusWithRetry(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, candyerrors.ErrMalformedResponse))
	assert.Equal(t, int32(MaxTries), dev.requests.Load())
}

func TestStatusWithRetryStopsOnUnknownAppliance(t *testing.T) {
	dev := &device{plain: `{"statusUnknown":{}}`}
	srv := httptest.NewServer(dev)
	defer srv.Close()

	_, err := newTestClient(srv, "", false).StatusWithRetry(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, candyerrors.ErrUnknownAppliance))
	assert.Equal(t, int32(1), dev.requests.Load())
}

func TestStatusRetriesServerErrors(t *testing.T) {
	plain := fixture(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(plain)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "", false).StatusWithRetry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDetectEncryption(t *testing.T) {
	plain := fixture(t)
	dev := &device{plain: `{"response":"BAD REQUEST"}`, encrypted: encrypt(t, plain)}
	srv := httptest.NewServer(dev)
	defer srv.Close()

	c := newTestClient(srv, "", false)
	c.ProbeDelay = time.Millisecond

	result, err := c.DetectEncryption(context.Background())
	require.NoError(t, err)
	assert.Equal(t, detect.Encryption, result.Mode)
	assert.Equal(t, testKey, string(result.Key))
	assert.Equal(t, []string{"encrypted=0", "encrypted=1"}, dev.queries)

	// the recovered key decodes subsequent polls
	c.Key = result.Key
	c.UseEncryption = result.UseEncryption()
	s, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.KindWashingMachine, s.Kind())
}
