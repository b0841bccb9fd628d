package domain

import "time"

// Role defines what a user may administer.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User is an authenticated actor. Every ledger balance is tracked per
// user.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
