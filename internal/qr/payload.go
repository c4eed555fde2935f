package qr

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/common"
)

const (
	StatusValid   = "VALID"
	StatusExpired = "EXPIRED"
)

// Payload is the JSON document encoded into the visual code.
type Payload struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	Timestamp   int64  `json:"timestamp"`
	UserType    string `json:"tipoUsuario"`
	Expired     bool   `json:"expired,omitempty"`
	AutoRenewal bool   `json:"autoRenewal,omitempty"`
	Status      string `json:"status"`
}

// NewPayload builds the payload for t as seen at now. Auto-renewing tokens
// carry now as their timestamp.
func NewPayload(t Token, now time.Time) Payload {
	id := t.Identity.Normalize()
	p := Payload{
		Name:      id.Name,
		Surname:   id.Surname,
		Email:     id.Email,
		Timestamp: t.IssuedAt.UnixMilli(),
		UserType:  id.UserType.WireName(),
		Status:    t.Status(),
	}

	switch {
	case t.AutoRenew:
		p.Timestamp = now.UnixMilli()
		p.AutoRenewal = true
	case t.Expired:
		p.Expired = true
	}
	return p
}

// Serialize returns the compact JSON encoding of t's payload at now.
func Serialize(t Token, now time.Time) string {
	// A flat struct of strings, ints and bools always marshals.
	b, _ := json.Marshal(NewPayload(t, now))
	return string(b)
}

// ParsePayload decodes a scanned payload. Payloads missing identity fields,
// the timestamp or a known user type wrap common.ErrMalformedPayload.
func ParsePayload(s string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}

	p.Name = strings.TrimSpace(p.Name)
	p.Surname = strings.TrimSpace(p.Surname)
	p.Email = strings.TrimSpace(p.Email)

	switch {
	case p.Name == "" || p.Surname == "" || p.Email == "":
		return Payload{}, fmt.Errorf("%w: incomplete identity", common.ErrMalformedPayload)
	case p.Timestamp <= 0:
		return Payload{}, fmt.Errorf("%w: missing timestamp", common.ErrMalformedPayload)
	}
	if _, err := ParseUserType(p.UserType); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}
	return p, nil
}

// Identity returns the identity carried by the payload.
func (p Payload) Identity() Identity {
	ut, _ := ParseUserType(p.UserType)
	return Identity{Name: p.Name, Surname: p.Surname, Email: p.Email, UserType: ut}
}

func (p Payload) IssuedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Age is the absolute distance between the payload timestamp and now.
func (p Payload) Age(now time.Time) time.Duration {
	d := now.Sub(p.IssuedAt())
	if d < 0 {
		d = -d
	}
	return d
}

// IsExpired reports whether the payload is marked expired or older than
// tolerance at now.
func (p Payload) IsExpired(now time.Time, tolerance time.Duration) bool {
	if p.Expired || p.Status == StatusExpired {
		return true
	}
	return p.Age(now) > tolerance
}
