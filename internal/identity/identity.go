// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

/*
Package identity implements the durable user record and credential system.

It handles everything from customer registration and secure password hashing
to session lifecycle via JWT access tokens and tracked refresh tokens, plus
the email-confirmation and password-reset flows (tokens stored in Redis).

Architecture:

  - Service: Orchestrates business logic (SignUp, SignIn, Update).
  - Repository: Abstracted interfaces for Postgres (identities, sessions)
    and Redis (volatile tokens).
  - Security: bcrypt password hashes and RSA-signed JWTs.

The package is the single authority over identity data. Every other component
(session store, back-office, order submission) consumes it through interfaces.
*/
package identity

import (
	"time"

	"github.com/sewcraft/api/internal/platform/sec"
)

// # Domain Entities

// Identity represents a registered SewCraft customer or back-office admin.
//
// ID and CreatedAt are immutable after creation. Role and IsBlocked change
// only through the privileged back-office path.
type Identity struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	AvatarURL    string       `json:"avatar,omitempty"`
	IsBlocked    bool         `json:"is_blocked"`
	IsConfirmed  bool         `json:"is_confirmed"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Patch is a partial update to an identity's mutable profile fields.
//
// Nil means "not provided — leave the stored value alone"; a non-nil pointer
// to an empty string is an explicit clear. This distinction is load-bearing:
// an omitted field must never overwrite remote data.
type Patch struct {
	Email   *string
	Name    *string
	Phone   *string
	Address *string
	Avatar  *string
}

// IsEmpty reports whether the patch provides no fields at all.
func (p Patch) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.Phone == nil &&
		p.Address == nil && p.Avatar == nil
}

// Apply merges the provided fields into the identity in place.
func (p Patch) Apply(ident *Identity) {
	if p.Email != nil {
		ident.Email = *p.Email
	}
	if p.Name != nil {
		ident.Name = *p.Name
	}
	if p.Phone != nil {
		ident.Phone = *p.Phone
	}
	if p.Address != nil {
		ident.Address = *p.Address
	}
	if p.Avatar != nil {
		ident.AvatarURL = *p.Avatar
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in this domain.
const (
	FieldEmail           = "email"
	FieldName            = "name"
	FieldPassword        = "password"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldAvatar          = "avatar"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldMessage         = "message"
)
