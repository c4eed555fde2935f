package qr

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/go-playground/validator/v10"
)

// UserType distinguishes the two kinds of lab users that carry a pass.
type UserType string

const (
	UserTypeStudent UserType = "STUDENT"
	UserTypeHelper  UserType = "HELPER"
)

// Names used in the tipoUsuario payload field understood by the validation
// backend.
const (
	wireStudent = "ESTUDIANTE"
	wireHelper  = "AYUDANTE"
)

// WireName returns the payload representation of u.
func (u UserType) WireName() string {
	switch u {
	case UserTypeHelper:
		return wireHelper
	default:
		return wireStudent
	}
}

// ParseUserType accepts both the internal and the payload spelling,
// case-insensitively.
func ParseUserType(s string) (UserType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(UserTypeStudent), wireStudent:
		return UserTypeStudent, nil
	case string(UserTypeHelper), wireHelper:
		return UserTypeHelper, nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

// Identity is the person a QR code is generated for.
type Identity struct {
	Name     string   `json:"name" validate:"required"`
	Surname  string   `json:"surname" validate:"required"`
	Email    string   `json:"email" validate:"required,contains=@"`
	UserType UserType `json:"userType" validate:"oneof=STUDENT HELPER"`
}

var validate = validator.New()

// Normalize returns a copy of i with surrounding whitespace removed from
// every string field.
func (i Identity) Normalize() Identity {
	return Identity{
		Name:     strings.TrimSpace(i.Name),
		Surname:  strings.TrimSpace(i.Surname),
		Email:    strings.TrimSpace(i.Email),
		UserType: i.UserType,
	}
}

// Validate checks the normalized identity. Failures wrap
// common.ErrInvalidIdentity and name the offending fields.
func (i Identity) Validate() error {
	err := validate.Struct(i.Normalize())
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", common.ErrInvalidIdentity, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidIdentity, strings.Join(fields, ", "))
}

func (i Identity) String() string {
	return fmt.Sprintf("%s %s <%s>", i.Name, i.Surname, i.Email)
}
