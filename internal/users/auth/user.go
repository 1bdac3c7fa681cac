// Copyright (c) 2026 Inkpress. All rights reserved.

/*
Package auth implements the user identity and credential lifecycle layer.

It defines the core domain entity (User) and the logic for registration,
authentication, email verification, and password recovery.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity. All single-use credential state (verification and reset tokens,
the refresh-token session slot) lives on the account row itself.
*/
package auth

import (
	"time"

	"github.com/inkpress/inkpress/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Inkpress platform.
//
// The verification and reset token digests are stored alongside their expiry
// as a pair; both halves are always written or cleared together. The plain
// tokens themselves are never persisted, only their SHA-256 digests.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Bio          string       `json:"bio,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Website      string       `json:"website,omitempty"`
	Role         sec.UserRole `json:"role"`
	IsVerified   bool         `json:"is_verified"`

	// Credential state. Omitted from JSON for security.
	VerificationTokenHash string     `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	ResetTokenHash        string     `json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`
	RefreshToken          string     `json:"-"` // Single active session slot.

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
