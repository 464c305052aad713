package domain

import (
	"errors"
	"time"
)

// Well-known role names. Roles follow the ROLE_ naming convention; the
// default role is assigned to every newly registered user.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleManager = "ROLE_GERENTE"
	RoleSeller  = "ROLE_VENDEDOR"
	DefaultRole = RoleSeller
	RolePrefix  = "ROLE_"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already in use")
var ErrEmailTaken = errors.New("email already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInactiveAccount = errors.New("account is inactive")
var ErrRoleNotFound = errors.New("role not found")
var ErrDefaultRoleMissing = errors.New("default role missing")

// User models an authenticated actor in the system. The password hash is
// never serialized outward. Role membership is owned one-directionally:
// a user holds role names, roles hold no back-pointers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Active       bool      `json:"active"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries the given role name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries ROLE_ADMIN.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Role is an access profile (RBAC). Name is globally unique and starts
// with the ROLE_ prefix by convention.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthContext is the request-scoped result of a successful bearer
// authentication. It is attached to exactly one in-flight request and
// discarded when the request completes; it is never shared or persisted.
type AuthContext struct {
	User        *User
	Authorities []string
}

// NewAuthContext derives the authority set from the resolved user.
func NewAuthContext(u *User) *AuthContext {
	authorities := make([]string, len(u.Roles))
	copy(authorities, u.Roles)
	return &AuthContext{User: u, Authorities: authorities}
}

// HasAuthority reports whether the authenticated user holds the authority.
func (a *AuthContext) HasAuthority(name string) bool {
	for _, auth := range a.Authorities {
		if auth == name {
			return true
		}
	}
	return false
}
