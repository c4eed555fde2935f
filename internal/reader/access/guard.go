// Package access authorizes a reader device. The operator unlocks the
// reader with a 4-digit access PIN whose bcrypt hash is kept in the local
// metadata store; the first run sets it. Each device also carries a stable
// id that is sent with every backend request.
package access

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/labaccess/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/prompt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	PINLength      = 4
	deviceIDPrefix = "lector-"
)

var ErrInvalidPIN = errors.New("access PIN must be exactly 4 digits")

// TxFunc runs fn against a metadata repository bound to one transaction.
type TxFunc func(ctx context.Context, fn func(ctx context.Context, meta metadata.Repository) error) error

type Option func(*Guard)

// WithTx makes read-then-write sequences atomic.
func WithTx(f TxFunc) Option {
	return func(g *Guard) { g.inTx = f }
}

type Guard struct {
	meta metadata.Repository
	inTx TxFunc
	cost int
}

func NewGuard(meta metadata.Repository, opts ...Option) *Guard {
	g := &Guard{meta: meta, cost: bcrypt.DefaultCost}
	g.inTx = func(ctx context.Context, fn func(context.Context, metadata.Repository) error) error {
		return fn(ctx, g.meta)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DeviceID returns the persisted device id, creating it on first use.
func (g *Guard) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := g.inTx(ctx, func(ctx context.Context, meta metadata.Repository) error {
		b, err := meta.Get(ctx, metadata.KeyDeviceID)
		if err == nil {
			id = string(b)
			return nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		id = deviceIDPrefix + uuid.NewString()
		return meta.Set(ctx, metadata.KeyDeviceID, []byte(id))
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (g *Guard) HasPIN(ctx context.Context) (bool, error) {
	_, err := g.meta.Get(ctx, metadata.KeyAccessPINHash)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SetPIN stores the bcrypt hash of pin, replacing any previous one.
func (g *Guard) SetPIN(ctx context.Context, pin []byte) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword(pin, g.cost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return g.meta.Set(ctx, metadata.KeyAccessPINHash, hash)
}

// Verify fails with common.ErrUnauthorized unless pin matches the stored hash.
func (g *Guard) Verify(ctx context.Context, pin []byte) error {
	hash, err := g.meta.Get(ctx, metadata.KeyAccessPINHash)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: no access PIN set", common.ErrUnauthorized)
	}
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(hash, pin); err != nil {
		return fmt.Errorf("%w: wrong access PIN", common.ErrUnauthorized)
	}
	return nil
}

// Authorize unlocks the reader interactively. Without a stored PIN the user
// picks one (entered twice); otherwise up to attempts tries are allowed.
func (g *Guard) Authorize(ctx context.Context, w io.Writer, attempts int) error {
	has, err := g.HasPIN(ctx)
	if err != nil {
		return err
	}
	if !has {
		return g.enroll(ctx, w)
	}

	for i := 0; i < attempts; i++ {
		pin, err := prompt.GetSecret("Access PIN", w)
		if err != nil {
			return err
		}
		err = g.Verify(ctx, pin)
		clear(pin)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrUnauthorized) {
			return err
		}
		fmt.Fprintln(w, "Wrong PIN.")
	}
	return fmt.Errorf("%w: too many attempts", common.ErrUnauthorized)
}

func (g *Guard) enroll(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "No access PIN set for this reader.")
	pin, err := prompt.GetSecret("New access PIN (4 digits)", w)
	if err != nil {
		return err
	}
	defer clear(pin)
	if !validPIN(pin) {
		return ErrInvalidPIN
	}

	again, err := prompt.GetSecret("Repeat access PIN", w)
	if err != nil {
		return err
	}
	defer clear(again)
	if string(pin) != string(again) {
		return fmt.Errorf("%w: PINs do not match", common.ErrUnauthorized)
	}
	return g.SetPIN(ctx, pin)
}

func validPIN(pin []byte) bool {
	if len(pin) != PINLength {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
