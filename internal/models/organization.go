package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant: one gardening business. Every domain row is
// scoped by organization_id and every query filters on it.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership roles.
const (
	MembershipRoleOwner  = "owner"
	MembershipRoleMember = "member"
)

// Membership links a user to an organization with a role.
type Membership struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
