package qr

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/common"
)

const (
	DefaultExpiry      = 15000 * time.Millisecond
	DefaultRenewPeriod = 14000 * time.Millisecond

	// AcceptanceWindow is how old a payload may be when the validation
	// backend checks it.
	AcceptanceWindow = 16000 * time.Millisecond
)

// Timing is the expiry window of a one-shot token and the renewal period of
// an auto-renewing one. RenewPeriod must stay below Expiry so a renewing
// code is never observed expired.
type Timing struct {
	Expiry      time.Duration
	RenewPeriod time.Duration
}

func DefaultTiming() Timing {
	return Timing{Expiry: DefaultExpiry, RenewPeriod: DefaultRenewPeriod}
}

func (t Timing) Validate() error {
	if t.RenewPeriod <= 0 || t.Expiry <= 0 || t.RenewPeriod >= t.Expiry {
		return fmt.Errorf("%w (expiry=%s, renew=%s)", common.ErrInvalidTiming, t.Expiry, t.RenewPeriod)
	}
	return nil
}
