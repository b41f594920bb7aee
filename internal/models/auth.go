package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"token"`
	ExpiresIn   int64     `json:"expiresIn"`
	User        UserInfo  `json:"usuario"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string    `json:"id"`
	Email    string    `json:"correo"`
	FullName string    `json:"nombre"`
	Roles    []RoleTag `json:"roles"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Roles  []RoleTag `json:"roles"`
	jwt.RegisteredClaims
}

// RoleSet returns the claims' roles as a capability set.
func (c *JWTClaims) RoleSet() RoleSet {
	if c == nil {
		return RoleSet{}
	}
	return NewRoleSet(c.Roles...)
}
