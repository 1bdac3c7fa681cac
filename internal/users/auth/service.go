// Copyright (c) 2026 Inkpress. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/sec"
	"github.com/inkpress/inkpress/pkg/uuidv7"
)

// # Contracts & Types

// TokenCodec defines the contract for issuing and verifying signed tokens.
type TokenCodec interface {
	// GenerateAccessToken creates a short-lived signed JWT for the given user.
	GenerateAccessToken(userID, username, role string) (string, error)

	// GenerateRefreshToken creates a long-lived signed JWT carrying only the
	// user ID as subject.
	GenerateRefreshToken(userID string) (string, error)

	// VerifyRefreshToken validates a refresh token and returns its subject.
	// Signature and expiry failures are indistinguishable to the caller.
	VerifyRefreshToken(tokenString string) (string, error)
}

// Service implements the credential lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// handling, or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenCodec     TokenCodec
	notifier       email.Notifier
	clientURL      string

	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

// NewService constructs a new [Service] with its dependencies. clientURL is
// the public frontend origin used to build verification and reset links.
func NewService(userRepo UserRepository, codec TokenCodec, notifier email.Notifier, clientURL string) *Service {
	return &Service{
		userRepository: userRepo,
		tokenCodec:     codec,
		notifier:       notifier,
		clientURL:      strings.TrimRight(clientURL, "/"),
		now:            time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member. The account starts unverified;
a single-use verification token is generated, its digest pinned to the row
with a short expiry, and the plain token dispatched by email exactly once.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists), NotificationFailed, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	normalizedEmail := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, normalizedEmail)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.Must(),
		Username:     input.Username,
		Email:        normalizedEmail,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsVerified:   false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// The account stays created even when dispatch fails; the client recovers
	// via resend-verification.
	if err := service.issueVerificationToken(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// issueVerificationToken generates a fresh verification token, pins its
// digest and expiry to the account, and dispatches the plain token by email.
func (service *Service) issueVerificationToken(context context.Context, user *User) error {
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	expiresAt := service.now().Add(VerificationTokenTTL)
	if err := service.userRepository.SetVerificationToken(context, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("auth_service_save_verification_token_failed: %w", err)
	}

	body, err := email.RenderVerification(service.clientURL, token)
	if err != nil {
		return fmt.Errorf("auth_service_render_verification_failed: %w", err)
	}

	if err := service.notifier.Send(context, user.Email, email.SubjectVerifyEmail, body); err != nil {
		return apperr.NotificationFailed(err)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with constant-time password comparison,
requires a verified email, and stores the refresh token in the account's
single session slot. A second login from anywhere overwrites the slot,
invalidating the previous refresh token (last login wins).

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized, Forbidden (unverified), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(input.Email)))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-time comparison in bcrypt to prevent timing attacks. Same
	// generic message as the unknown-email path.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Unverified accounts hold valid credentials but may not log in yet.
	if !user.IsVerified {
		return nil, apperr.Forbidden("Please verify your email before logging in")
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenCodec.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := service.tokenCodec.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Persist into the single session slot, overwriting any previous value
	if err := service.userRepository.SetRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: service.now().Add(sec.RefreshTokenTTL),
		User:                  user,
	}, nil
}

/*
Logout releases the user's active session slot.

Description: Idempotent by design. An unknown or already-cleared token is
treated as a successful logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Persistence failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	user, err := service.userRepository.FindByRefreshToken(context, refreshToken)

	// If (err != nil) the session is already gone or invalid; logout is
	// considered successful (idempotent operation).
	if err != nil {
		return nil
	}

	if err := service.userRepository.ClearRefreshToken(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshAccessToken exchanges a valid refresh token for a new access token.

Description: Resolves the account holding the presented token, verifies the
token's signature and expiry, and requires the embedded subject to match the
owning account. The refresh token itself is not rotated.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New signed access token
  - err: Forbidden or internal failures
*/
func (service *Service) RefreshAccessToken(context context.Context, refreshToken string) (string, error) {

	// An account must currently hold this exact token in its session slot.
	user, err := service.userRepository.FindByRefreshToken(context, refreshToken)
	if err != nil {
		return "", apperr.Forbidden("Invalid refresh token")
	}

	// Signature/expiry failure and subject mismatch are indistinguishable.
	subject, err := service.tokenCodec.VerifyRefreshToken(refreshToken)
	if err != nil || subject != user.ID {
		return "", apperr.Forbidden("Invalid refresh token")
	}

	accessToken, err := service.tokenCodec.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return accessToken, nil
}

// # Email Verification

/*
VerifyEmail confirms a user's email address using a single-use token.

Description: Matches the token's digest against accounts with an open
verification window. Success flips the account to verified and clears the
digest and expiry pair in one write, so the token can never match again.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: InvalidToken when no unexpired digest matches, or database errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {

	user, err := service.userRepository.FindByVerificationDigest(context, sec.HashToken(token), service.now())

	// Unknown digest and expired window are deliberately indistinguishable.
	if err != nil {
		return apperr.InvalidToken()
	}

	if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	return nil
}

/*
ResendVerification issues a fresh verification token to an unverified account.

Description: Overwrites any pending digest and expiry pair with a fresh one
and dispatches the new plain token by email.

Parameters:
  - context: context.Context
  - emailAddress: string

Returns:
  - err: NotFound, Conflict (already verified), NotificationFailed, or storage errors
*/
func (service *Service) ResendVerification(context context.Context, emailAddress string) error {

	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(emailAddress)))
	if err != nil {
		return err
	}

	if user.IsVerified {
		return apperr.Conflict("Email is already verified")
	}

	return service.issueVerificationToken(context, user)
}

// # Password Recovery

/*
ForgotPassword initiates the forgot-password flow.

Description: Generates a single-use reset token, pins its digest and a short
expiry to the account, and dispatches the plain token by email. An unknown
email yields a silent success to prevent user enumeration.

Parameters:
  - context: context.Context
  - emailAddress: string

Returns:
  - err: NotificationFailed or storage errors; never NotFound
*/
func (service *Service) ForgotPassword(context context.Context, emailAddress string) error {

	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(emailAddress)))
	if err != nil {
		return nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	expiresAt := service.now().Add(ResetTokenTTL)
	if err := service.userRepository.SetResetToken(context, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	body, err := email.RenderPasswordReset(service.clientURL, token)
	if err != nil {
		return fmt.Errorf("auth_service_render_reset_failed: %w", err)
	}

	if err := service.notifier.Send(context, user.Email, email.SubjectResetPassword, body); err != nil {
		return apperr.NotificationFailed(err)
	}

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Matches the token's digest against accounts with an open reset
window, hashes the new password, and replaces it while clearing the digest
and expiry pair in one write. The session slot is left untouched.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: InvalidToken when no unexpired digest matches, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	user, err := service.userRepository.FindByResetDigest(context, sec.HashToken(token), service.now())

	// Unknown digest and expired window are deliberately indistinguishable.
	if err != nil {
		return apperr.InvalidToken()
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	return nil
}
