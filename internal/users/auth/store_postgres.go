// Copyright (c) 2026 Inkpress. All rights reserved.

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// The repository is strictly separated from domain logic. It implements the
// domain-defined [UserRepository] interface using the [pgxpool.Pool]
// connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical select list for hydrating a full User row.
const userColumns = `
	id, username, email, passwordhash, bio, avatarurl, website, role, isverified,
	verificationtokenhash, verificationexpiresat,
	resettokenhash, resetexpiresat, refreshtoken,
	createdat, updatedat`

// scanUser hydrates a User from a row produced by a userColumns select.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.AvatarURL,
		&user.Website,
		&user.Role,
		&user.IsVerified,
		&user.VerificationTokenHash,
		&user.VerificationExpiresAt,
		&user.ResetTokenHash,
		&user.ResetExpiresAt,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided. Unique constraint violations on email or
username surface as client-safe Conflict errors.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, bio, avatarurl, website, role, isverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.AvatarURL,
		user.Website,
		user.Role,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE email = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE username = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByRefreshToken retrieves the account currently holding the given refresh
token in its session slot.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByRefreshToken(context context.Context, token string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE refreshtoken = $1 AND refreshtoken <> ''"

	user, err := scanUser(repository.pool.QueryRow(context, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_refresh_token_failed: %w", err)
	}

	return user, nil
}

/*
FindByVerificationDigest retrieves the account whose verification digest
matches and whose window is still open at the given instant.

Parameters:
  - context: context.Context
  - digest: string
  - now: time.Time

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByVerificationDigest(context context.Context, digest string, now time.Time) (*User, error) {
	query := "SELECT " + userColumns + ` FROM users.account
		WHERE verificationtokenhash = $1 AND verificationexpiresat > $2`

	user, err := scanUser(repository.pool.QueryRow(context, query, digest, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Verification token")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_verification_digest_failed: %w", err)
	}

	return user, nil
}

/*
FindByResetDigest retrieves the account whose reset digest matches and whose
window is still open at the given instant.

Parameters:
  - context: context.Context
  - digest: string
  - now: time.Time

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByResetDigest(context context.Context, digest string, now time.Time) (*User, error) {
	query := "SELECT " + userColumns + ` FROM users.account
		WHERE resettokenhash = $1 AND resetexpiresat > $2`

	user, err := scanUser(repository.pool.QueryRow(context, query, digest, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reset token")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_reset_digest_failed: %w", err)
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET username = $2, bio = $3, avatarurl = $4, website = $5, updatedat = $6
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Bio,
		user.AvatarURL,
		user.Website,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
UpdatePassword replaces the password hash and clears the reset digest and
expiry pair in a single statement.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, resettokenhash = '', resetexpiresat = NULL, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified flips isverified and clears the verification digest and expiry
pair in a single statement, so a used token can never match again.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Database errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET isverified = TRUE, verificationtokenhash = '', verificationexpiresat = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}

/*
SetVerificationToken stores a verification digest and expiry pair,
overwriting any pending pair.

Parameters:
  - context: context.Context
  - userID: string
  - digest: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetVerificationToken(context context.Context, userID, digest string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET verificationtokenhash = $2, verificationexpiresat = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, digest, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_verification_token_failed: %w", err)
	}
	return nil
}

/*
SetResetToken stores a reset digest and expiry pair, overwriting any pending
pair.

Parameters:
  - context: context.Context
  - userID: string
  - digest: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, digest string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET resettokenhash = $2, resetexpiresat = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, digest, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_reset_token_failed: %w", err)
	}
	return nil
}

/*
SetRefreshToken stores the refresh token in the account's single session
slot, overwriting any previous value (last login wins).

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, token string) error {
	const query = "UPDATE users.account SET refreshtoken = $2, updatedat = $3 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_token_failed: %w", err)
	}
	return nil
}

/*
ClearRefreshToken empties the account's session slot.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = "UPDATE users.account SET refreshtoken = '', updatedat = $2 WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_token_failed: %w", err)
	}
	return nil
}
