package models

import "github.com/golang-jwt/jwt/v5"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal is the authenticated caller extracted from a session token.
type Principal struct {
	UserID int64 `json:"id"`
	Role   Role  `json:"role"`
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// SessionClaims is the JWT claim set issued at login.
type SessionClaims struct {
	// sub, iss, aud, exp, iat
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}
