package models

import (
	"net/mail"
	"time"

	"github.com/google/uuid"

	dErrors "github.com/chrisstorey/community-building-manager/pkg/domain-errors"
)

// Role controls which endpoints a user may call.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// User is an account scoped to one organization. PasswordHash is a bcrypt
// hash and never leaves the service layer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name,omitempty"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser validates the fields the schema requires and applies defaults:
// role falls back to viewer, accounts start active.
func NewUser(email, passwordHash, fullName string, role Role, organizationID uuid.UUID, now time.Time) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid email address")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	if organizationID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization id is required")
	}
	if role == "" {
		role = RoleViewer
	}
	if !role.Valid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid role: "+string(role))
	}
	return &User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   passwordHash,
		FullName:       fullName,
		Role:           role,
		IsActive:       true,
		OrganizationID: organizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
