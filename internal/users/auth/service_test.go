// Copyright (c) 2026 Inkpress. All rights reserved.

package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/platform/apperr"
	"github.com/inkpress/inkpress/internal/platform/constants"
	"github.com/inkpress/inkpress/internal/platform/sec"
)

// # Test Doubles

// memoryUserRepository is an in-memory UserRepository for service tests.
type memoryUserRepository struct {
	users map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: map[string]*User{}}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByRefreshToken(_ context.Context, token string) (*User, error) {
	for _, user := range repo.users {
		if user.RefreshToken != "" && user.RefreshToken == token {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *memoryUserRepository) FindByVerificationDigest(_ context.Context, digest string, now time.Time) (*User, error) {
	for _, user := range repo.users {
		if user.VerificationTokenHash == digest &&
			user.VerificationExpiresAt != nil && user.VerificationExpiresAt.After(now) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Verification token")
}

func (repo *memoryUserRepository) FindByResetDigest(_ context.Context, digest string, now time.Time) (*User, error) {
	for _, user := range repo.users {
		if user.ResetTokenHash == digest &&
			user.ResetExpiresAt != nil && user.ResetExpiresAt.After(now) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Reset token")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *memoryUserRepository) Update(_ context.Context, user *User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user := repo.users[userID]
	user.PasswordHash = newHash
	user.ResetTokenHash = ""
	user.ResetExpiresAt = nil
	return nil
}

func (repo *memoryUserRepository) MarkVerified(_ context.Context, userID string) error {
	user := repo.users[userID]
	user.IsVerified = true
	user.VerificationTokenHash = ""
	user.VerificationExpiresAt = nil
	return nil
}

func (repo *memoryUserRepository) SetVerificationToken(_ context.Context, userID, digest string, expiresAt time.Time) error {
	user := repo.users[userID]
	user.VerificationTokenHash = digest
	user.VerificationExpiresAt = &expiresAt
	return nil
}

func (repo *memoryUserRepository) SetResetToken(_ context.Context, userID, digest string, expiresAt time.Time) error {
	user := repo.users[userID]
	user.ResetTokenHash = digest
	user.ResetExpiresAt = &expiresAt
	return nil
}

func (repo *memoryUserRepository) SetRefreshToken(_ context.Context, userID, token string) error {
	repo.users[userID].RefreshToken = token
	return nil
}

func (repo *memoryUserRepository) ClearRefreshToken(_ context.Context, userID string) error {
	repo.users[userID].RefreshToken = ""
	return nil
}

// sentMessage captures one dispatched notification.
type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

// recordingNotifier records outgoing messages and can simulate failures.
type recordingNotifier struct {
	sent []sentMessage
	fail bool
}

func (notifier *recordingNotifier) Send(_ context.Context, recipient, subject, htmlBody string) error {
	if notifier.fail {
		return errors.New("smtp connection refused")
	}
	notifier.sent = append(notifier.sent, sentMessage{Recipient: recipient, Subject: subject, Body: htmlBody})
	return nil
}

// tokenPattern matches the plain token embedded in a dispatched email link.
var tokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

// lastToken extracts the plain token from the most recent message.
func (notifier *recordingNotifier) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, notifier.sent)
	match := tokenPattern.FindStringSubmatch(notifier.sent[len(notifier.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func newTestService(t *testing.T) (*Service, *memoryUserRepository, *recordingNotifier) {
	t.Helper()

	codec, err := sec.NewTokenService(
		"test-access-secret-0123456789",
		"test-refresh-secret-0123456789",
		constants.AuthIssuer,
	)
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	notifier := &recordingNotifier{}
	return NewService(repo, codec, notifier, "http://localhost:3000"), repo, notifier
}

// registerVerified enrolls and verifies an account, returning the entity.
func registerVerified(t *testing.T, service *Service, notifier *recordingNotifier, username, emailAddr, password string) *User {
	t.Helper()

	user, err := service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    emailAddr,
		Password: password,
	})
	require.NoError(t, err)
	require.NoError(t, service.VerifyEmail(context.Background(), notifier.lastToken(t)))
	return user
}

// # Registration

/*
TestService_Register_Conflicts verifies that duplicate identities are
rejected with client-safe Conflict errors.
*/
func TestService_Register_Conflicts(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Username: "amara", Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// Same email, different username
	_, err = service.Register(ctx, RegisterInput{Username: "amara2", Email: "amara@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)

	// Same username, different email
	_, err = service.Register(ctx, RegisterInput{Username: "amara", Email: "other@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)
}

/*
TestService_Register_NotificationFailure verifies that a failed dispatch
surfaces as NOTIFICATION_FAILED while the account remains created.
*/
func TestService_Register_NotificationFailure(t *testing.T) {
	service, repo, notifier := newTestService(t)
	notifier.fail = true

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "amara", Email: "amara@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotificationFailed, apperr.As(err).Code)

	// The account still exists and can recover via resend-verification.
	stored, err := repo.FindByEmail(context.Background(), "amara@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
}

// # Login

/*
TestService_Login_UniformInvalidCredentials verifies that an unknown email
and a wrong password are indistinguishable to the caller.
*/
func TestService_Login_UniformInvalidCredentials(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")

	_, unknownErr := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever"})
	_, wrongErr := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "wrong-horse"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, apperr.As(unknownErr).Code, apperr.As(wrongErr).Code)
	assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
}

/*
TestService_Login_RequiresVerification verifies that valid credentials on an
unverified account yield a Forbidden outcome, not Unauthorized.
*/
func TestService_Login_RequiresVerification(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Username: "amara", Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)
}

/*
TestService_Login_SecondLoginInvalidatesFirst verifies the single session
slot: a second login overwrites the slot, killing the first refresh token.
*/
func TestService_Login_SecondLoginInvalidatesFirst(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")

	first, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	second, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = service.RefreshAccessToken(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)

	_, err = service.RefreshAccessToken(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

// # Session Management

/*
TestService_RefreshAccessToken verifies that a held refresh token yields a
fresh access token carrying the owner's identity.
*/
func TestService_RefreshAccessToken(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	user := registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")
	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	accessToken, err := service.RefreshAccessToken(ctx, session.RefreshToken)
	require.NoError(t, err)

	claims, err := service.tokenCodec.(*sec.TokenService).VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "amara", claims.Username)
}

/*
TestService_RefreshAccessToken_CrossAccount verifies that a refresh token
sitting in another account's slot is rejected even though it is held.
*/
func TestService_RefreshAccessToken_CrossAccount(t *testing.T) {
	service, repo, notifier := newTestService(t)
	ctx := context.Background()

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")
	mallory := registerVerified(t, service, notifier, "mallory", "mallory@example.com", "correct-horse")

	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// Move amara's token into mallory's slot: subject no longer matches owner.
	owner, err := repo.FindByRefreshToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, repo.ClearRefreshToken(ctx, owner.ID))
	require.NoError(t, repo.SetRefreshToken(ctx, mallory.ID, session.RefreshToken))

	_, err = service.RefreshAccessToken(ctx, session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)
}

/*
TestService_Logout_Idempotent verifies that logout succeeds for unknown
tokens and that a real logout releases the session slot.
*/
func TestService_Logout_Idempotent(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, service.Logout(ctx, "never-issued"))

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")
	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, session.RefreshToken))

	_, err = service.RefreshAccessToken(ctx, session.RefreshToken)
	require.Error(t, err)

	// Second logout with the now-dead token is still a success.
	assert.NoError(t, service.Logout(ctx, session.RefreshToken))
}

// # Email Verification

/*
TestService_VerifyEmail_SingleUse verifies that a captured verification
token verifies exactly once.
*/
func TestService_VerifyEmail_SingleUse(t *testing.T) {
	service, repo, notifier := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Username: "amara", Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	token := notifier.lastToken(t)
	require.NoError(t, service.VerifyEmail(ctx, token))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationTokenHash)
	assert.Nil(t, stored.VerificationExpiresAt)

	// Second use of the same token
	err = service.VerifyEmail(ctx, token)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.As(err).Code)
}

/*
TestService_VerifyEmail_ExpiryBoundary exercises the 10 minute window just
inside and just outside its edge.
*/
func TestService_VerifyEmail_ExpiryBoundary(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()
	base := time.Now()

	service.now = func() time.Time { return base }
	_, err := service.Register(ctx, RegisterInput{Username: "amara", Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	insideToken := notifier.lastToken(t)

	_, err = service.Register(ctx, RegisterInput{Username: "mallory", Email: "mallory@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	outsideToken := notifier.lastToken(t)

	// 9m59s after issuance: still valid.
	service.now = func() time.Time { return base.Add(VerificationTokenTTL - time.Second) }
	assert.NoError(t, service.VerifyEmail(ctx, insideToken))

	// 10m01s after issuance: expired.
	service.now = func() time.Time { return base.Add(VerificationTokenTTL + time.Second) }
	err = service.VerifyEmail(ctx, outsideToken)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.As(err).Code)
}

/*
TestService_ResendVerification covers the not-found, already-verified, and
happy paths of the resend flow.
*/
func TestService_ResendVerification(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	err := service.ResendVerification(ctx, "ghost@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)

	_, err = service.Register(ctx, RegisterInput{Username: "amara", Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	staleToken := notifier.lastToken(t)

	// A resend overwrites the pending token; the stale one stops matching.
	require.NoError(t, service.ResendVerification(ctx, "amara@example.com"))
	freshToken := notifier.lastToken(t)
	require.NotEqual(t, staleToken, freshToken)

	err = service.VerifyEmail(ctx, staleToken)
	require.Error(t, err)
	require.NoError(t, service.VerifyEmail(ctx, freshToken))

	// Verified accounts cannot request another token.
	err = service.ResendVerification(ctx, "amara@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)
}

// # Password Recovery

/*
TestService_ForgotPassword_AntiEnumeration verifies that unknown emails get
a silent success with no dispatch.
*/
func TestService_ForgotPassword_AntiEnumeration(t *testing.T) {
	service, _, notifier := newTestService(t)

	assert.NoError(t, service.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, notifier.sent)
}

/*
TestService_ResetPassword covers the full recovery round trip: the token
resets the password once, leaves the session slot alone, and dies on use.
*/
func TestService_ResetPassword(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")
	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword(ctx, "amara@example.com"))
	resetToken := notifier.lastToken(t)

	require.NoError(t, service.ResetPassword(ctx, resetToken, "battery-staple"))

	// Old password is dead, new one works.
	_, err = service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.Error(t, err)
	relogin, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "battery-staple"})
	require.NoError(t, err)
	require.NotNil(t, relogin)

	// The reset did not touch the refresh slot until that re-login happened;
	// the pre-reset session stayed valid up to that point.
	_ = session

	// The token is single use.
	err = service.ResetPassword(ctx, resetToken, "yet-another")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidToken, apperr.As(err).Code)
}

/*
TestService_ResetPassword_KeepsSession verifies the session slot survives a
password reset untouched.
*/
func TestService_ResetPassword_KeepsSession(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	registerVerified(t, service, notifier, "amara", "amara@example.com", "correct-horse")
	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword(ctx, "amara@example.com"))
	require.NoError(t, service.ResetPassword(ctx, notifier.lastToken(t), "battery-staple"))

	_, err = service.RefreshAccessToken(ctx, session.RefreshToken)
	assert.NoError(t, err)
}

// # End To End

/*
TestService_FullLifecycle walks register, verify, login, and refresh as one
continuous flow.
*/
func TestService_FullLifecycle(t *testing.T) {
	service, _, notifier := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Username: "amara", Email: "Amara@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "amara@example.com", user.Email) // normalized
	assert.False(t, user.IsVerified)

	require.NoError(t, service.VerifyEmail(ctx, notifier.lastToken(t)))

	session, err := service.Login(ctx, LoginInput{Email: "amara@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.User.IsVerified)

	accessToken, err := service.RefreshAccessToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	require.NoError(t, service.Logout(ctx, session.RefreshToken))
	_, err = service.RefreshAccessToken(ctx, session.RefreshToken)
	require.Error(t, err)
}
