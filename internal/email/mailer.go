// Copyright (c) 2026 Inkpress. All rights reserved.

package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig carries the connection settings for the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough configuration is present to attempt
// delivery. A blank host means email is intentionally switched off, for
// example in local development.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Mailer sends HTML email over plain SMTP with optional AUTH PLAIN.
type Mailer struct {
	cfg SMTPConfig
}

// NewMailer returns a Mailer bound to the given SMTP settings.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers a single HTML message to recipient.
//
// The context is accepted for interface symmetry; net/smtp does not support
// cancellation mid-dial, so the deadline is best effort.
func (m *Mailer) Send(_ context.Context, recipient, subject, htmlBody string) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("email: smtp is not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("email: send to %s: %w", recipient, err)
	}
	return nil
}
