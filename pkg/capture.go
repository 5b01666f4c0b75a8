package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/client"
	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/operations"
)

// CaptureResponse saves one raw response from the device at ip to path,
// compressed according to the file extension. It returns the raw size.
func CaptureResponse(ctx context.Context, ip string, useEncryption bool, path string, logger hclog.Logger) (int, error) {
	logger = orNull(logger)
	body, err := client.New(ip, nil, useEncryption, logger).Probe(ctx, useEncryption)
	if err != nil {
		return 0, err
	}

	ids := operations.CaptureChain(path)
	ops, err := operations.Resolve(ids, nil)
	if err != nil {
		return 0, err
	}
	data, err := operations.ApplyChain(body, ops)
	if err != nil {
		return 0, fmt.Errorf("encoding capture: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return 0, fmt.Errorf("failed to write capture: %w", err)
	}

	logger.Info("💾 Saved response", "path", path, "bytes", len(body), "encoding", operations.OperationsToString(ids))
	return len(body), nil
}

// ReadCapture loads a capture written by CaptureResponse.
func ReadCapture(path string, logger hclog.Logger) ([]byte, error) {
	logger = orNull(logger)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Debug("Failed to close capture", "error", err)
		}
	}()

	ids := operations.CaptureChain(path)
	ops, err := operations.Resolve(ids, nil)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		var buf bytes.Buffer
		_, err := buf.ReadFrom(f)
		return buf.Bytes(), err
	}

	var buf bytes.Buffer
	if err := ops[0].ReverseStream(f, &buf); err != nil {
		return nil, fmt.Errorf("decoding capture %s: %w", operations.OperationsToString(ids), err)
	}
	return buf.Bytes(), nil
}

// CrackCapture recovers the key of a captured encrypted response. A capture
// that is hex-encoded plain JSON yields EncryptionWithoutKey.
func CrackCapture(ctx context.Context, path string, logger hclog.Logger) (detect.Result, error) {
	logger = orNull(logger)
	body, err := ReadCapture(path, logger)
	if err != nil {
		return detect.Result{}, err
	}

	hexOp, err := operations.Get(operations.OP_HEX)
	if err != nil {
		return detect.Result{}, err
	}
	raw, err := hexOp.Reverse(body)
	if err != nil {
		return detect.Result{}, fmt.Errorf("%w: %v", candyerrors.ErrKeyRecoveryFailed, err)
	}
	if json.Valid(raw) {
		logger.Info("✅ Capture is not encrypted, no key needed")
		return detect.Result{Mode: detect.EncryptionWithoutKey}, nil
	}

	key, found, err := crypto.FindKey(ctx, raw, logger)
	if err != nil {
		return detect.Result{}, err
	}
	if !found {
		return detect.Result{}, candyerrors.ErrKeyRecoveryFailed
	}
	return detect.Result{Mode: detect.Encryption, Key: key}, nil
}
