package identities

import (
	"context"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/qr"
)

// Record is a saved identity.
type Record struct {
	ID        string
	Seq       int64
	Identity  qr.Identity
	CreatedAt time.Time
}

// Repository is the local identity store.
type Repository interface {
	// Append stores id at the end of the list.
	Append(ctx context.Context, id qr.Identity) (Record, error)

	// List returns every saved identity in insertion order.
	List(ctx context.Context) ([]Record, error)

	// ListByUserType returns the saved identities of one user type in
	// insertion order.
	ListByUserType(ctx context.Context, ut qr.UserType) ([]Record, error)
}
