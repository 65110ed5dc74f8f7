package auth

import (
	"strings"
	"time"
)

// Role is the fixed set of positions inside the firm. A user holds exactly
// one role; changing it is an administrative update outside this subsystem.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RolePartner         Role = "partner"
	RoleSeniorAssociate Role = "senior_associate"
	RoleJuniorAssociate Role = "junior_associate"
	RoleParalegal       Role = "paralegal"
	RoleClient          Role = "client"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(strings.ToLower(s)))
	switch r {
	case RoleSuperAdmin, RolePartner, RoleSeniorAssociate, RoleJuniorAssociate, RoleParalegal, RoleClient:
		return r, true
	}
	return "", false
}

// Valid reports whether the role belongs to the fixed set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

const (
	userStatusActive   = "active"
	userStatusDisabled = "disabled"
)

// User represents a staff member or client account.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u != nil && u.Status == userStatusActive
}
