// Package api is the HTTP client of the access validation backend.
//
// Every call has a per-request timeout and is retried with a constant
// backoff on transport errors and 5xx responses. 4xx responses that carry a
// JSON body are decoded and returned as regular results, since that is how
// the backend reports rejected codes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	chirender "github.com/go-chi/render"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryInterval = time.Second

	userAgent = "labaccess-reader/1.0"
)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the number of retries after the first attempt and the
// constant pause between attempts.
func WithRetry(maxRetries int, interval time.Duration) Option {
	return func(c *Client) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		c.maxRetries = uint64(maxRetries)
		c.interval = interval
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDeviceID tags every request with the reader's device id.
func WithDeviceID(id string) Option {
	return func(c *Client) { c.deviceID = id }
}

type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries uint64
	interval   time.Duration
	logger     logging.Logger
	deviceID   string
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		maxRetries: DefaultMaxRetries,
		interval:   DefaultRetryInterval,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.interval <= 0 {
		c.interval = DefaultRetryInterval
	}
	c.logger = c.logger.With("component", "api")
	return c
}

// ValidateQR submits a scanned payload for validation and registration.
func (c *Client) ValidateQR(ctx context.Context, payload string) (ValidationResult, error) {
	var res ValidationResult
	if err := c.do(ctx, http.MethodPost, "/validate-qr", nil, json.RawMessage(payload), &res); err != nil {
		return ValidationResult{}, err
	}
	return res, nil
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var res Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, nil, &res); err != nil {
		return Stats{}, err
	}
	return res, nil
}

// LastRecords returns the most recent entries and exits, newest first.
func (c *Client) LastRecords(ctx context.Context, limit int) ([]Record, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var res recordsResponse
	if err := c.do(ctx, http.MethodGet, "/get-last-records", q, nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: %s", common.ErrBackend, res.Error)
	}
	return res.Records, nil
}

func (c *Client) VerifyStudent(ctx context.Context, email string) (Verification, error) {
	return c.verify(ctx, "/verify-student", email)
}

func (c *Client) VerifyHelper(ctx context.Context, email string) (Verification, error) {
	return c.verify(ctx, "/verify-helper", email)
}

// Health reports nil when the backend answers with status "ok".
func (c *Client) Health(ctx context.Context) error {
	var res healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &res); err != nil {
		return err
	}
	if res.Status != "ok" {
		return fmt.Errorf("%w: health status %q", common.ErrBackend, res.Status)
	}
	return nil
}

func (c *Client) verify(ctx context.Context, path, email string) (Verification, error) {
	var res Verification
	body := map[string]string{"email": strings.TrimSpace(email)}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return Verification{}, err
	}
	return res, nil
}

// do performs one logical call, retrying as configured, and decodes the
// JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = b
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.roundTrip(ctx, method, endpoint, body, out)
		var re *retryableError
		if errors.As(err, &re) {
			c.logger.Warn(ctx, "request failed, retrying", "path", path, "attempt", attempt, "error", re.err)
			return retry.RetryableError(re.err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &retryableError{err: fmt.Errorf("%w: HTTP %d", common.ErrBackend, resp.StatusCode)}
	}

	if err := chirender.DecodeJSON(resp.Body, out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%w: HTTP %d", common.ErrBackend, resp.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
