package qr

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		wantErr bool
		field   string
	}{
		{name: "ok", id: Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: UserTypeStudent}},
		{name: "ok helper with padding", id: Identity{Name: " Bo ", Surname: " Kim", Email: "bo@uni.cl ", UserType: UserTypeHelper}},
		{name: "blank name", id: Identity{Name: "   ", Surname: "Lee", Email: "ana@x.com", UserType: UserTypeStudent}, wantErr: true, field: "name"},
		{name: "missing surname", id: Identity{Name: "Ana", Email: "ana@x.com", UserType: UserTypeStudent}, wantErr: true, field: "surname"},
		{name: "email without at", id: Identity{Name: "Ana", Surname: "Lee", Email: "ana.x.com", UserType: UserTypeStudent}, wantErr: true, field: "email"},
		{name: "unknown user type", id: Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: "ADMIN"}, wantErr: true, field: "usertype"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidIdentity))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestIdentity_Normalize(t *testing.T) {
	id := Identity{Name: "  Ana ", Surname: "Lee\t", Email: " ana@x.com\n", UserType: UserTypeStudent}
	assert.Equal(t, Identity{Name: "Ana", Surname: "Lee", Email: "ana@x.com", UserType: UserTypeStudent}, id.Normalize())
}

func TestParseUserType(t *testing.T) {
	for in, want := range map[string]UserType{
		"STUDENT":    UserTypeStudent,
		"student":    UserTypeStudent,
		"ESTUDIANTE": UserTypeStudent,
		"helper":     UserTypeHelper,
		" ayudante ": UserTypeHelper,
	} {
		got, err := ParseUserType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUserType("visitor")
	assert.Error(t, err)
}

func TestUserType_WireName(t *testing.T) {
	assert.Equal(t, "ESTUDIANTE", UserTypeStudent.WireName())
	assert.Equal(t, "AYUDANTE", UserTypeHelper.WireName())
}

func TestTiming_Validate(t *testing.T) {
	require.NoError(t, DefaultTiming().Validate())

	for _, bad := range []Timing{
		{Expiry: 15_000_000_000, RenewPeriod: 15_000_000_000},
		{Expiry: 15_000_000_000, RenewPeriod: 16_000_000_000},
		{Expiry: 15_000_000_000, RenewPeriod: 0},
		{Expiry: 0, RenewPeriod: -1},
	} {
		err := bad.Validate()
		assert.ErrorIs(t, err, common.ErrInvalidTiming, "%+v", bad)
	}
}
