// Package pkg is the high-level API used by the candy command.
package pkg

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/client"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	"github.com/provide-io/candy/go/candy/pkg/candy/status"
	_ "github.com/provide-io/candy/go/candy/pkg/candy/operations/compress"
)

// DetectTimeout bounds a whole detection run, key search included.
const DetectTimeout = 40 * time.Second

// DetectDevice works out how the device at ip encrypts its status.
func DetectDevice(ctx context.Context, ip string, logger hclog.Logger) (detect.Result, error) {
	logger = orNull(logger)
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	logger.Info("🔎 Detecting encryption", "ip", ip)
	result, err := client.New(ip, nil, false, logger).DetectEncryption(ctx)
	if err != nil {
		logger.Error("Detection failed", "ip", ip, "error", err)
		return detect.Result{}, err
	}
	logger.Info("✅ Detection complete", "ip", ip, "mode", result.Mode)
	return result, nil
}

// PollDevice fetches and parses one status, retrying transient failures.
func PollDevice(ctx context.Context, ip string, useEncryption bool, key []byte, logger hclog.Logger) (status.Status, error) {
	return client.New(ip, key, useEncryption, logger).StatusWithRetry(ctx)
}

func orNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
