// Copyright (c) 2026 Inkpress. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts,
// including the single-use credential state pinned to each account row.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByRefreshToken returns the account currently holding the given
		refresh token in its session slot.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByRefreshToken(context context.Context, token string) (*User, error)

	/*
		FindByVerificationDigest returns the account whose stored verification
		digest matches and whose verification window has not yet closed.

		Parameters:
		  - context: context.Context
		  - digest: string (SHA-256 hex of the plain token)
		  - now: time.Time (expiry reference instant)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByVerificationDigest(context context.Context, digest string, now time.Time) (*User, error)

	/*
		FindByResetDigest returns the account whose stored reset digest
		matches and whose reset window has not yet closed.

		Parameters:
		  - context: context.Context
		  - digest: string (SHA-256 hex of the plain token)
		  - now: time.Time (expiry reference instant)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByResetDigest(context context.Context, digest string, now time.Time) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces the user's password hash and clears the reset
		digest and expiry in the same write.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		MarkVerified flips the account to verified and clears the
		verification digest and expiry in the same write.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error

	/*
		SetVerificationToken stores a verification digest and expiry pair,
		overwriting any pending pair.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - digest: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetVerificationToken(context context.Context, userID, digest string, expiresAt time.Time) error

	/*
		SetResetToken stores a reset digest and expiry pair, overwriting any
		pending pair.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - digest: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetToken(context context.Context, userID, digest string, expiresAt time.Time) error

	/*
		SetRefreshToken stores the refresh token in the account's session
		slot, overwriting any previous value.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshToken(context context.Context, userID, token string) error

	/*
		ClearRefreshToken empties the account's session slot.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error
}
