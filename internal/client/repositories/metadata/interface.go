// Package metadata stores small key/value settings of a client device, such
// as the reader's device id, its access PIN hash and the last scan time.
package metadata

import "context"

// Well-known keys.
const (
	KeyDeviceID      = "device_id"
	KeyAccessPINHash = "access_pin_hash"
	KeyLastScan      = "last_scan_time"
)

// Repository is a key/value store. Get returns common.ErrNotFound for
// absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
}
