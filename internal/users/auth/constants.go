// Copyright (c) 2026 Inkpress. All rights reserved.

package auth

import "time"

// # Credential Lifecycle Constraints

const (
	// VerificationTokenTTL is the duration an email verification token
	// remains valid. Short-lived (10m) so a leaked link goes stale fast;
	// users can always request a fresh one via resend-verification.
	VerificationTokenTTL = 10 * time.Minute

	// VerificationTokenLength is the byte length of the random verification token.
	VerificationTokenLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (10m) for security.
	ResetTokenTTL = 10 * time.Minute

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)
