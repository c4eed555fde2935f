// Package scanner turns raw scans into validation requests. It drops scans
// that follow the previous one too closely and rejects payloads that cannot
// be a lab pass before they reach the backend.
package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/labaccess/internal/clockx"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/dmitrijs2005/labaccess/internal/reader/api"
)

const DefaultMinInterval = 2000 * time.Millisecond

// Validator submits a payload to the validation backend.
type Validator interface {
	ValidateQR(ctx context.Context, payload string) (api.ValidationResult, error)
}

type Option func(*Scanner)

func WithClock(c clockx.Clock) Option {
	return func(s *Scanner) { s.clock = c }
}

func WithMinInterval(d time.Duration) Option {
	return func(s *Scanner) { s.minInterval = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

type Scanner struct {
	validator   Validator
	meta        metadata.Repository
	clock       clockx.Clock
	minInterval time.Duration
	logger      logging.Logger

	mu   sync.Mutex
	last time.Time
}

func New(v Validator, meta metadata.Repository, opts ...Option) *Scanner {
	s := &Scanner{
		validator:   v,
		meta:        meta,
		clock:       clockx.Real{},
		minInterval: DefaultMinInterval,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "scanner")
	return s
}

// Scan handles one scanned line. Scans arriving within the minimum interval
// of the previously accepted scan fail with common.ErrScanTooSoon; payloads
// that do not parse fail with common.ErrMalformedPayload. Both are rejected
// without contacting the backend.
func (s *Scanner) Scan(ctx context.Context, raw string) (api.ValidationResult, error) {
	now, err := s.accept()
	if err != nil {
		return api.ValidationResult{}, err
	}
	s.recordScan(ctx, now)

	raw = strings.TrimSpace(raw)
	p, err := qr.ParsePayload(raw)
	if err != nil {
		s.logger.Warn(ctx, "malformed scan", "error", err)
		return api.ValidationResult{}, err
	}
	if p.IsExpired(now, qr.AcceptanceWindow) {
		s.logger.Debug(ctx, "payload looks stale, backend decides", "age", p.Age(now), "status", p.Status)
	}

	res, err := s.validator.ValidateQR(ctx, raw)
	if err != nil {
		s.logger.Error(ctx, "validation request failed", "email", p.Email, "error", err)
		return api.ValidationResult{}, err
	}
	s.logger.Info(ctx, "scan validated", "email", p.Email, "success", res.Success, "kind", res.Kind)
	return res, nil
}

// LastScan returns the time of the last accepted scan as persisted in the
// metadata store.
func (s *Scanner) LastScan(ctx context.Context) (time.Time, error) {
	b, err := s.meta.Get(ctx, metadata.KeyLastScan)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return time.Time{}, fmt.Errorf("last scan time: %w", err)
	}
	return t, nil
}

func (s *Scanner) accept() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.last.IsZero() && now.Sub(s.last) < s.minInterval {
		return time.Time{}, fmt.Errorf("%w: wait %s", common.ErrScanTooSoon, s.minInterval-now.Sub(s.last))
	}
	s.last = now
	return now, nil
}

func (s *Scanner) recordScan(ctx context.Context, now time.Time) {
	if err := s.meta.Set(ctx, metadata.KeyLastScan, []byte(now.UTC().Format(time.RFC3339Nano))); err != nil {
		s.logger.Warn(ctx, "failed to persist last scan time", "error", err)
	}
}
