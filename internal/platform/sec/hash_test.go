// Copyright (c) 2026 Inkpress. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies the hash-then-check contract.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct")
	require.NoError(t, err)

	// A bcrypt hash is never trivially short and never the plain text.
	assert.GreaterOrEqual(t, len(hash), 59)
	assert.NotEqual(t, "correct", hash)

	assert.True(t, sec.CheckPasswordHash("correct", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("correct", "not-a-hash"))
}

/*
TestHashPassword_UniqueSalts checks that two hashes of the same input differ.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	second, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestGenerateSecureToken verifies length, encoding, and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	token, err := sec.GenerateSecureToken(sec.SecureTokenLength)
	require.NoError(t, err)

	// 32 random bytes hex-encode to 64 characters.
	assert.Len(t, token, 64)

	other, err := sec.GenerateSecureToken(sec.SecureTokenLength)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

/*
TestHashToken verifies the digest is deterministic and fixed-length.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("some-random-token")

	// SHA-256 hex digest is always 64 characters.
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("some-random-token"))
	assert.NotEqual(t, digest, sec.HashToken("some-other-token"))
}
