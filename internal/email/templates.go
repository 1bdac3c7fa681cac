// Copyright (c) 2026 Inkpress. All rights reserved.

package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Subjects for the two credential lifecycle messages.
const (
	SubjectVerifyEmail   = "Verify your Inkpress account"
	SubjectResetPassword = "Reset your Inkpress password"
)

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #1d4ed8; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
    <h1>Welcome to Inkpress</h1>
  </div>
  <div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px;">
    <h2>Verify your email address</h2>
    <p>Thanks for signing up. Click the button below to activate your account.</p>
    <p><a href="{{.Link}}" style="display: inline-block; background-color: #1d4ed8; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Verify Email Address</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #1d4ed8;">{{.Link}}</p>
    <p>If you did not create an account, you can safely ignore this message.</p>
  </div>
  <div style="margin-top: 30px; font-size: 12px; color: #666; text-align: center;">
    <p>This link expires in 10 minutes.</p>
    <p>&copy; 2026 Inkpress. All rights reserved.</p>
  </div>
</body>
</html>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #1d4ed8; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
    <h1>Inkpress</h1>
  </div>
  <div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px;">
    <h2>Reset your password</h2>
    <p>We received a request to reset the password for your account. Click the button below to choose a new one.</p>
    <p><a href="{{.Link}}" style="display: inline-block; background-color: #1d4ed8; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #1d4ed8;">{{.Link}}</p>
    <p>If you did not request a reset, no action is needed.</p>
  </div>
  <div style="margin-top: 30px; font-size: 12px; color: #666; text-align: center;">
    <p>This link expires in 10 minutes.</p>
    <p>&copy; 2026 Inkpress. All rights reserved.</p>
  </div>
</body>
</html>`))
)

// RenderVerification builds the HTML body of the account verification
// message pointing at a client-side verification page carrying the token.
func RenderVerification(clientURL, token string) (string, error) {
	return render(verificationTmpl, fmt.Sprintf("%s/verify-email?token=%s", clientURL, token))
}

// RenderPasswordReset builds the HTML body of the password reset message.
func RenderPasswordReset(clientURL, token string) (string, error) {
	return render(resetTmpl, fmt.Sprintf("%s/reset-password?token=%s", clientURL, token))
}

func render(tmpl *template.Template, link string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return "", fmt.Errorf("email: render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
