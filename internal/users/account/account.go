// Copyright (c) 2026 Inkpress. All rights reserved.

/*
Package account handles user profile management.

It provides functionalities for users to view and update their private
identity data, and exposes public author profiles for reader-facing pages.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: The [AccountRepository] contract is satisfied by the auth
    package's PostgreSQL repository; no separate store is needed.
*/
package account

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/internal/users/auth"
)

// # Domain Entities

// AuthorProfile is the public, reader-facing view of a user. It omits the
// email address and all credential state.
type AuthorProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicProfile maps a full user entity onto its public view.
func PublicProfile(user *auth.User) *AuthorProfile {
	return &AuthorProfile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Website:   user.Website,
		CreatedAt: user.CreatedAt,
	}
}

// # Repository Contracts

// AccountRepository defines the persistence contract for profile access.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error
}

// # Field Identifiers

const (
	FieldBio       = "bio"
	FieldAvatarURL = "avatar_url"
	FieldWebsite   = "website"
)
