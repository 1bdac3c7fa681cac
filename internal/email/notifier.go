// Copyright (c) 2026 Inkpress. All rights reserved.

/*
Package email provides the outgoing notification layer for Inkpress.

It defines the [Notifier] contract consumed by the credential lifecycle
service and an SMTP-backed [Mailer] implementation, together with the HTML
templates for verification and password-reset messages.

# Architecture

The auth service only ever sees the [Notifier] interface; delivery transport
(SMTP today, a provider API tomorrow) is an infrastructure detail swappable
without touching domain logic.
*/
package email

import "context"

// Notifier delivers a rendered message to a single recipient.
//
// Implementations must return an error on delivery failure so the caller can
// surface a NOTIFICATION_FAILED outcome instead of silently swallowing it.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}
