package qr

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/clockx"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/logging"
)

// Event identifies a token transition reported to observers.
type Event int

const (
	EventIssued Event = iota + 1
	EventRenewed
	EventExpired
	EventToggled
	EventClosed
)

func (e Event) String() string {
	switch e {
	case EventIssued:
		return "issued"
	case EventRenewed:
		return "renewed"
	case EventExpired:
		return "expired"
	case EventToggled:
		return "toggled"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Observer is notified after every transition, outside the state lock.
// Notifications are delivered one at a time in transition order. Observers
// may read the manager but must not call Issue, ToggleAutoRenew or Close.
type Observer interface {
	Observe(ev Event, t Token)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event, t Token)

func (f ObserverFunc) Observe(ev Event, t Token) { f(ev, t) }

type Option func(*Manager)

func WithClock(c clockx.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithTiming(t Timing) Option {
	return func(m *Manager) { m.timing = t }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observers = append(m.observers, o) }
}

// Manager owns the live token of one generator screen and its single
// outstanding timer.
type Manager struct {
	clock     clockx.Clock
	timing    Timing
	logger    logging.Logger
	observers []Observer

	// notifyMu is taken before mu and held until observers return, so a
	// stale timer notification cannot land after a newer transition's.
	notifyMu sync.Mutex

	mu    sync.Mutex
	token *Token
	gen   uint64
	timer clockx.Timer
}

// NewManager builds a Manager. It fails with common.ErrInvalidTiming when
// the renewal period does not stay below the expiry window.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		clock:  clockx.Real{},
		timing: DefaultTiming(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.timing.Validate(); err != nil {
		return nil, err
	}
	m.logger = m.logger.With("component", "qr")
	return m, nil
}

func (m *Manager) Timing() Timing { return m.timing }

// Issue replaces the live token with a fresh one for id and schedules its
// expiry or renewal.
func (m *Manager) Issue(id Identity, autoRenew bool) Token {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.cancelLocked()
	m.gen++
	m.token = &Token{
		Identity:   id.Normalize(),
		IssuedAt:   m.clock.Now(),
		AutoRenew:  autoRenew,
		Generation: m.gen,
	}
	m.scheduleLocked()
	snap := *m.token
	m.mu.Unlock()

	m.logger.Info(context.Background(), "qr issued",
		"email", snap.Identity.Email, "user_type", snap.Identity.UserType,
		"auto_renew", autoRenew, "gen", snap.Generation)
	m.notify(EventIssued, snap)
	return snap
}

// ToggleAutoRenew flips the renewal mode of the live token. Entering
// auto-renew refreshes the timestamp and clears expiry. Leaving it keeps the
// timestamp and schedules a fresh expiry window unless the token is already
// expired.
func (m *Manager) ToggleAutoRenew() (Token, error) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if m.token == nil {
		m.mu.Unlock()
		return Token{}, common.ErrNoToken
	}

	m.cancelLocked()
	m.gen++
	t := m.token
	t.AutoRenew = !t.AutoRenew
	t.Generation = m.gen

	switch {
	case t.AutoRenew:
		t.IssuedAt = m.clock.Now()
		t.Expired = false
		m.scheduleLocked()
	case t.Expired:
		// no implicit un-expiry, nothing left to schedule
	default:
		m.scheduleLocked()
	}
	snap := *t
	m.mu.Unlock()

	m.logger.Info(context.Background(), "qr auto-renew toggled",
		"auto_renew", snap.AutoRenew, "state", snap.State(), "gen", snap.Generation)
	m.notify(EventToggled, snap)
	return snap, nil
}

// Current returns a snapshot of the live token.
func (m *Manager) Current() (Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return Token{}, false
	}
	return *m.token, true
}

// Snapshot returns the live token together with its payload, both taken
// under one lock so they always agree on the token state.
func (m *Manager) Snapshot() (Token, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return Token{}, "", common.ErrNoToken
	}
	return *m.token, Serialize(*m.token, m.clock.Now()), nil
}

// Payload serializes the live token at the current clock time.
func (m *Manager) Payload() (string, error) {
	_, payload, err := m.Snapshot()
	return payload, err
}

// Close cancels the outstanding timer and drops the live token. Callbacks
// already in flight become no-ops. The manager may be reused with Issue.
func (m *Manager) Close() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.cancelLocked()
	m.gen++
	had := m.token
	m.token = nil
	m.mu.Unlock()

	if had != nil {
		m.notify(EventClosed, *had)
	}
}

func (m *Manager) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) scheduleLocked() {
	gen := m.gen
	if m.token.AutoRenew {
		m.token.ExpiresAt = time.Time{}
		m.timer = m.clock.AfterFunc(m.timing.RenewPeriod, func() { m.renew(gen) })
		return
	}
	m.token.ExpiresAt = m.clock.Now().Add(m.timing.Expiry)
	m.timer = m.clock.AfterFunc(m.timing.Expiry, func() { m.expire(gen) })
}

func (m *Manager) renew(gen uint64) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if gen != m.gen || m.token == nil {
		m.mu.Unlock()
		m.logger.Debug(context.Background(), "stale renewal ignored", "gen", gen)
		return
	}
	m.token.IssuedAt = m.clock.Now()
	m.token.Expired = false
	m.timer = m.clock.AfterFunc(m.timing.RenewPeriod, func() { m.renew(gen) })
	snap := *m.token
	m.mu.Unlock()

	m.logger.Debug(context.Background(), "qr renewed", "gen", gen)
	m.notify(EventRenewed, snap)
}

func (m *Manager) expire(gen uint64) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if gen != m.gen || m.token == nil {
		m.mu.Unlock()
		m.logger.Debug(context.Background(), "stale expiry ignored", "gen", gen)
		return
	}
	m.token.Expired = true
	m.timer = nil
	snap := *m.token
	m.mu.Unlock()

	m.logger.Debug(context.Background(), "qr expired", "gen", gen)
	m.notify(EventExpired, snap)
}

func (m *Manager) notify(ev Event, t Token) {
	for _, o := range m.observers {
		o.Observe(ev, t)
	}
}
