// Package qr implements the lifecycle of the access QR code shown by the
// student and helper generator screens.
//
// A Manager owns at most one live Token. Issuing a token schedules either a
// one-shot expiry (Timing.Expiry, 15 s by default) or a recurring renewal
// (Timing.RenewPeriod, 14 s by default) that refreshes the timestamp before
// the expiry window can close. Every transition cancels the outstanding timer
// before scheduling a new one, and every timer callback carries the
// generation it was scheduled under, so a callback that lost a race with a
// reissue or toggle is a no-op.
//
// Serialize renders a token into the JSON payload encoded in the visual code
// and read back by scanners with ParsePayload.
package qr
