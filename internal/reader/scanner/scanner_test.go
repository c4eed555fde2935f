package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/client/migrations"
	"github.com/dmitrijs2005/labaccess/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/labaccess/internal/clockx"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/dbx"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/dmitrijs2005/labaccess/internal/reader/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

type fakeValidator struct {
	payloads []string
	result   api.ValidationResult
	err      error
}

func (f *fakeValidator) ValidateQR(_ context.Context, payload string) (api.ValidationResult, error) {
	f.payloads = append(f.payloads, payload)
	return f.result, f.err
}

func validPayload(at time.Time) string {
	tok := qr.Token{
		Identity: qr.Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: qr.UserTypeStudent},
		IssuedAt: at,
	}
	return qr.Serialize(tok, at)
}

func setup(t *testing.T, v Validator) (*Scanner, *clockx.Fake, metadata.Repository) {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:", migrations.FS)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	meta := metadata.NewSQLiteRepository(db)
	clock := clockx.NewFake(start)
	return New(v, meta, WithClock(clock)), clock, meta
}

func TestScan_ForwardsValidPayload(t *testing.T) {
	v := &fakeValidator{result: api.ValidationResult{Success: true, Kind: "Entrada"}}
	s, _, _ := setup(t, v)

	res, err := s.Scan(context.Background(), "  "+validPayload(start)+"\n")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, v.payloads, 1)
	assert.Equal(t, validPayload(start), v.payloads[0], "payload is trimmed before sending")
}

func TestScan_Debounce(t *testing.T) {
	v := &fakeValidator{result: api.ValidationResult{Success: true}}
	s, clock, _ := setup(t, v)
	ctx := context.Background()

	_, err := s.Scan(ctx, validPayload(start))
	require.NoError(t, err)

	clock.Advance(1999 * time.Millisecond)
	_, err = s.Scan(ctx, validPayload(clock.Now()))
	assert.ErrorIs(t, err, common.ErrScanTooSoon)

	clock.Advance(time.Millisecond)
	_, err = s.Scan(ctx, validPayload(clock.Now()))
	require.NoError(t, err)

	assert.Len(t, v.payloads, 2)
}

func TestScan_MalformedRejectedLocally(t *testing.T) {
	v := &fakeValidator{}
	s, clock, _ := setup(t, v)
	ctx := context.Background()

	for _, raw := range []string{
		"not json",
		`{"name":"Ana","surname":"Lee","email":"ana@x.com","tipoUsuario":"ESTUDIANTE","status":"VALID"}`,
		`{"name":"Ana","surname":"","email":"ana@x.com","timestamp":1,"tipoUsuario":"ESTUDIANTE","status":"VALID"}`,
		`{"name":"Ana","surname":"Lee","email":"ana@x.com","timestamp":1,"tipoUsuario":"PROFESOR","status":"VALID"}`,
	} {
		_, err := s.Scan(ctx, raw)
		assert.ErrorIs(t, err, common.ErrMalformedPayload, raw)
		clock.Advance(2 * time.Second)
	}
	assert.Empty(t, v.payloads)
}

func TestScan_MalformedStillCountsForDebounce(t *testing.T) {
	s, _, _ := setup(t, &fakeValidator{})

	_, err := s.Scan(context.Background(), "garbage")
	require.ErrorIs(t, err, common.ErrMalformedPayload)
	_, err = s.Scan(context.Background(), validPayload(start))
	assert.ErrorIs(t, err, common.ErrScanTooSoon)
}

func TestScan_StalePayloadIsStillForwarded(t *testing.T) {
	v := &fakeValidator{result: api.ValidationResult{Success: false, Expired: true, Error: "QR expirado"}}
	s, _, _ := setup(t, v)

	res, err := s.Scan(context.Background(), validPayload(start.Add(-time.Minute)))
	require.NoError(t, err)
	assert.True(t, res.Expired)
	assert.Len(t, v.payloads, 1)
}

func TestScan_BackendError(t *testing.T) {
	v := &fakeValidator{err: errors.New("connection refused")}
	s, _, _ := setup(t, v)

	_, err := s.Scan(context.Background(), validPayload(start))
	assert.Error(t, err)
}

func TestLastScan(t *testing.T) {
	s, clock, _ := setup(t, &fakeValidator{})
	ctx := context.Background()

	_, err := s.LastScan(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	clock.Advance(5 * time.Second)
	_, _ = s.Scan(ctx, "garbage")

	got, err := s.LastScan(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(start.Add(5*time.Second)))
}
