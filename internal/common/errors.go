// Package common defines sentinel errors shared by the generator and reader
// clients. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// QR lifecycle errors.
	ErrNoToken       = errors.New("no qr token issued")
	ErrInvalidTiming = errors.New("renew period must be positive and shorter than expiry window")

	// Validation errors.
	ErrInvalidIdentity  = errors.New("invalid identity")
	ErrMalformedPayload = errors.New("malformed qr payload")

	// Reader errors.
	ErrScanTooSoon  = errors.New("scan too soon")
	ErrUnauthorized = errors.New("unauthorized device")
	ErrBackend      = errors.New("validation backend error")
)
