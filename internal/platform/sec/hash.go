// Copyright (c) 2026 Inkpress. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SecureTokenLength is the byte length of single-use random tokens
// (verification, password reset). 32 bytes hex-encode to 64 characters.
const SecureTokenLength = 32

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt.DefaultCost (10) balances security and CPU utilization during
// registration spikes. The output embeds its own salt.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version
// using bcrypt's constant-time comparison.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// GenerateSecureToken returns n bytes of cryptographic randomness, hex-encoded.
//
// The plain-text value is delivered to the user exactly once and never
// persisted; only its [HashToken] digest is stored.
func GenerateSecureToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken computes the fast, deterministic SHA-256 hex digest of a
// single-use token.
//
// # Not a Password Hash
//
// Tokens are high-entropy random values, so a slow adaptive hash is
// unnecessary; a plain digest keeps them lookup-able by exact match while
// never storing them in plain text.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
