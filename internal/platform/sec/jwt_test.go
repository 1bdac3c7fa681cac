// Copyright (c) 2026 Inkpress. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-access-secret", "test-refresh-secret", "inkpress.test")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_Construction rejects missing or identical secrets.
*/
func TestTokenService_Construction(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", "iss")
	assert.Error(t, err)

	_, err = sec.NewTokenService("same", "same", "iss")
	assert.Error(t, err)

	_, err = sec.NewTokenService("access", "refresh", "iss")
	assert.NoError(t, err)
}

/*
TestTokenService_AccessRoundTrip verifies claims survive sign-and-verify.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

/*
TestTokenService_RefreshRoundTrip verifies the subject survives the cycle.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	subject, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

/*
TestTokenService_KindSeparation ensures a token of one kind never verifies
as the other kind (separate signing secrets).
*/
func TestTokenService_KindSeparation(t *testing.T) {
	service := newTokenService(t)

	accessToken, err := service.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)

	refreshToken, err := service.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// A refresh token must not pass access verification, and vice versa.
	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_ForeignSignature rejects tokens signed by another keypair.
*/
func TestTokenService_ForeignSignature(t *testing.T) {
	service := newTokenService(t)

	foreign, err := sec.NewTokenService("other-access", "other-refresh", "inkpress.test")
	require.NoError(t, err)

	token, err := foreign.GenerateAccessToken("user-1", "alice", "user")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Garbage rejects malformed input uniformly.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTokenService(t)

	_, err := service.VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyRefreshToken("")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}
