// Package detect works out whether an appliance encrypts its status endpoint
// and, when it does, recovers the key from a single encrypted response.
package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/operations"
)

// BadRequestMarker is the value of the "response" field a device sends when
// it rejects an unencrypted request.
const BadRequestMarker = "BAD REQUEST"

// Prober fetches one raw status body from a device.
type Prober interface {
	Probe(ctx context.Context, useEncryption bool) ([]byte, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, useEncryption bool) ([]byte, error)

// Probe calls f(ctx, useEncryption).
func (f ProberFunc) Probe(ctx context.Context, useEncryption bool) ([]byte, error) {
	return f(ctx, useEncryption)
}

// Result is what a device needs stored to be polled later.
type Result struct {
	Mode Mode
	Key  []byte
}

// UseEncryption reports whether polls must use the encrypted endpoint.
func (r Result) UseEncryption() bool {
	return r.Mode != NoEncryption
}

// Options tune a detection run.
type Options struct {
	Logger hclog.Logger

	// ProbeDelay is waited between the unencrypted and the encrypted probe.
	ProbeDelay time.Duration
}

type state int

const (
	probingUnencrypted state = iota
	probingEncrypted
	checkingPlain
	searching
)

func (s state) String() string {
	return [...]string{"probing-unencrypted", "probing-encrypted", "checking-plain", "searching"}[s]
}

// Detect runs the two-probe protocol against prober. The encrypted endpoint is
// only probed once the unencrypted probe has failed. Transport errors from the
// encrypted probe are returned as is; an unrecoverable key yields
// ErrKeyRecoveryFailed.
func Detect(ctx context.Context, prober Prober, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	logger.Debug("Detection state", "state", probingUnencrypted)
	logger.Info("Trying to get a response without encryption (encrypted=0)...")
	body, err := prober.Probe(ctx, false)
	if err == nil {
		err = checkPlainResponse(body)
	}
	if err == nil {
		logger.Info("✅ Received unencrypted JSON response, no key needed")
		return Result{Mode: NoEncryption}, nil
	}
	logger.Debug("Unencrypted probe failed", "error", err)

	if opts.ProbeDelay > 0 {
		timer := time.NewTimer(opts.ProbeDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	logger.Debug("Detection state", "state", probingEncrypted)
	logger.Info("Failed to get a valid response without encryption, trying encrypted=1...")
	body, err = prober.Probe(ctx, true)
	if err != nil {
		return Result{}, fmt.Errorf("probing encrypted endpoint: %w", err)
	}

	hexOp, err := operations.Get(operations.OP_HEX)
	if err != nil {
		return Result{}, err
	}
	raw, err := hexOp.Reverse(body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", candyerrors.ErrKeyRecoveryFailed, err)
	}

	logger.Debug("Detection state", "state", checkingPlain)
	if json.Valid(raw) {
		logger.Info("✅ Response is not encrypted despite encrypted=1, no key needed")
		return Result{Mode: EncryptionWithoutKey}, nil
	}

	logger.Debug("Detection state", "state", searching)
	logger.Info("🔨 Brute forcing the key from the encrypted response...")
	logger.Trace("Encrypted response", "hex", string(body))
	key, found, err := crypto.FindKey(ctx, raw, logger)
	if err != nil {
		return Result{}, fmt.Errorf("searching key: %w", err)
	}
	if !found {
		return Result{}, candyerrors.ErrKeyRecoveryFailed
	}

	logger.Info("🔑 Using key with encrypted=1 for future requests")
	return Result{Mode: Encryption, Key: key}, nil
}

// checkPlainResponse accepts any JSON document except the bad request marker.
func checkPlainResponse(body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("response is not JSON")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// Valid JSON that is not an object cannot carry the marker.
		return nil
	}

	raw, ok := fields["response"]
	if !ok {
		return nil
	}
	var marker string
	if err := json.Unmarshal(raw, &marker); err == nil && marker == BadRequestMarker {
		return fmt.Errorf("device rejected request: %s", marker)
	}
	return nil
}
