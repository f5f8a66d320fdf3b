package model

import "time"

// User represents an account of the storefront.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// UserPatch carries optional fields for administrative user updates.
type UserPatch struct {
	FullName *string
	Role     *Role
	IsActive *bool
}

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

// Can reports whether the principal's role grants p.
func (p Principal) Can(perm Permission) bool {
	return p.Role.Can(perm)
}
