// Package client talks to the status endpoint of a Candy appliance.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/pkg/candy/detect"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"github.com/provide-io/candy/go/candy/pkg/candy/status"
)

const (
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 10 * time.Second
	// DefaultProbeDelay is waited between the two detection probes.
	DefaultProbeDelay = 5 * time.Second
	// MaxTries is the number of attempts StatusWithRetry makes.
	MaxTries = 10

	maxBodySize = 1 << 20
)

// StatusURL is the status endpoint of the device at ip. ip may carry a port.
func StatusURL(ip string, useEncryption bool) string {
	encrypted := 0
	if useEncryption {
		encrypted = 1
	}
	return fmt.Sprintf("http://%s/http-read.json?encrypted=%d", ip, encrypted)
}

// Client polls one device. Key is empty unless the device encrypts its
// responses with a recovered key.
type Client struct {
	IP            string
	Key           []byte
	UseEncryption bool

	HTTPClient *http.Client
	Logger     hclog.Logger

	// ProbeDelay overrides DefaultProbeDelay during detection when non-zero.
	ProbeDelay time.Duration
	// NewBackOff builds the retry policy of StatusWithRetry.
	NewBackOff func() backoff.BackOff
}

// New returns a client for the device at ip.
func New(ip string, key []byte, useEncryption bool, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		IP:            ip,
		Key:           key,
		UseEncryption: useEncryption,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		Logger:        logger,
	}
}

func (c *Client) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return c.HTTPClient
}

// Probe fetches one raw body from the endpoint selected by useEncryption.
func (c *Client) Probe(ctx context.Context, useEncryption bool) ([]byte, error) {
	url := StatusURL(c.IP, useEncryption)
	c.logger().Trace("📡 GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("device returned %s", resp.Status)
	}
	return body, nil
}

// Fetch polls once and returns the decoded status document.
func (c *Client) Fetch(ctx context.Context) (map[string]any, error) {
	body, err := c.Probe(ctx, c.UseEncryption)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeResponse(body, c.UseEncryption, c.Key)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("📄 Status document", "doc", doc)
	return doc, nil
}

// Status polls once and parses the appliance status.
func (c *Client) Status(ctx context.Context) (status.Status, error) {
	doc, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return status.Parse(doc)
}

// StatusWithRetry is Status with exponential backoff. Transport errors and
// malformed responses are retried up to MaxTries attempts in total; anything
// else fails immediately.
func (c *Client) StatusWithRetry(ctx context.Context) (status.Status, error) {
	b := c.backOff()
	attempt := 0
	op := func() (status.Status, error) {
		attempt++
		s, err := c.Status(ctx)
		if err != nil && !retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return s, err
	}
	notify := func(err error, wait time.Duration) {
		c.logger().Warn("⚠️ Status poll failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}

	s, err := backoff.RetryNotifyWithData(op, backoff.WithContext(backoff.WithMaxRetries(b, MaxTries-1), ctx), notify)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) backOff() backoff.BackOff {
	if c.NewBackOff != nil {
		return c.NewBackOff()
	}
	return backoff.NewExponentialBackOff()
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, candyerrors.ErrUnknownAppliance) {
		return false
	}
	return true
}

// DetectEncryption runs detection against this client's device.
func (c *Client) DetectEncryption(ctx context.Context) (detect.Result, error) {
	delay := c.ProbeDelay
	if delay == 0 {
		delay = DefaultProbeDelay
	}
	return detect.Detect(ctx, c, detect.Options{
		Logger:     c.logger(),
		ProbeDelay: delay,
	})
}
