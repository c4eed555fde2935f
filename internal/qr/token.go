package qr

import "time"

// State is the lifecycle state of a token.
type State int

const (
	StateValid State = iota
	StateExpired
	StateAutoRenewing
)

func (s State) String() string {
	switch s {
	case StateExpired:
		return "expired"
	case StateAutoRenewing:
		return "auto-renewing"
	default:
		return "valid"
	}
}

// Token is a snapshot of the live QR token. Generation changes on every
// issue or toggle and identifies the timer schedule the token belongs to.
// ExpiresAt is the deadline of the pending one-shot expiry. It can be later
// than IssuedAt plus the expiry window after auto-renew is switched off, and
// it is zero for auto-renew tokens.
type Token struct {
	Identity   Identity
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Expired    bool
	AutoRenew  bool
	Generation uint64
}

func (t Token) State() State {
	switch {
	case t.AutoRenew:
		return StateAutoRenewing
	case t.Expired:
		return StateExpired
	default:
		return StateValid
	}
}

// Status is the payload status: EXPIRED only for an expired one-shot token.
func (t Token) Status() string {
	if t.Expired && !t.AutoRenew {
		return StatusExpired
	}
	return StatusValid
}
