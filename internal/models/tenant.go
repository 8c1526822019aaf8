package models

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// TenantContext scopes every read and write to one condominium and actor.
type TenantContext struct {
	CondominiumID uuid.UUID
	ProfileID     uuid.UUID
	Role          Role
}

func (t TenantContext) IsAdmin() bool {
	return t.Role == RoleAdmin
}
