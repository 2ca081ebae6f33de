package mail

import (
	"fmt"
	"html/template"
	"strings"
)

type message struct {
	subject string
	html    string
	text    string
}

var verificationHTML = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #2563eb; color: white; padding: 20px; text-align: center;">
    <h1>Welcome to Mintleaf!</h1>
  </div>
  <div style="padding: 30px 20px;">
    <h2>Hi {{.FirstName}},</h2>
    <p>Thank you for registering with Mintleaf. Please verify your email address to complete your account setup.</p>
    <div style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; background-color: #2563eb; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Verify Email Address</a>
    </div>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p>This verification link will expire in 24 hours.</p>
    <p>If you didn't create this account, please ignore this email.</p>
  </div>
  <div style="background-color: #f8f9fa; padding: 20px; text-align: center; color: #666;">
    <p>&copy; Mintleaf. All rights reserved.</p>
  </div>
</body>
</html>`))

var passwordResetHTML = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #dc2626; color: white; padding: 20px; text-align: center;">
    <h1>Password Reset Request</h1>
  </div>
  <div style="padding: 30px 20px;">
    <h2>Hi {{.FirstName}},</h2>
    <p>We received a request to reset your Mintleaf account password.</p>
    <p style="background-color: #fef3c7; border: 1px solid #f59e0b; border-radius: 6px; padding: 15px; color: #92400e;">
      <strong>Security Notice:</strong> If you didn't request this password reset, please ignore this email. Your account is secure.
    </p>
    <div style="text-align: center;">
      <a href="{{.Link}}" style="display: inline-block; background-color: #dc2626; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Reset Password</a>
    </div>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; color: #666;">{{.Link}}</p>
    <p><strong>This reset link will expire in 24 hours.</strong></p>
    <p>Your new password must be at least 8 characters long and contain an uppercase letter, a lowercase letter, and a number.</p>
  </div>
  <div style="background-color: #f8f9fa; padding: 20px; text-align: center; color: #666;">
    <p>&copy; Mintleaf. All rights reserved.</p>
    <p>This is an automated message, please do not reply to this email.</p>
  </div>
</body>
</html>`))

func renderHTML(t *template.Template, firstName, link string) string {
	var sb strings.Builder
	_ = t.Execute(&sb, struct {
		FirstName string
		Link      string
	}{FirstName: firstName, Link: link})
	return sb.String()
}

func verificationMessage(frontendURL, firstName, token string) message {
	link := fmt.Sprintf("%s/auth/verify?token=%s", frontendURL, token)

	text := fmt.Sprintf(`Hi %s,

Thank you for registering with Mintleaf. Please verify your email address by clicking the link below:

%s

This verification link will expire in 24 hours.

If you didn't create this account, please ignore this email.

Best regards,
The Mintleaf Team`, firstName, link)

	return message{
		subject: "Verify your Mintleaf account",
		html:    renderHTML(verificationHTML, firstName, link),
		text:    text,
	}
}

func passwordResetMessage(frontendURL, firstName, token string) message {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", frontendURL, token)

	text := fmt.Sprintf(`Hi %s,

We received a request to reset your Mintleaf account password.

SECURITY NOTICE: If you didn't request this password reset, please ignore this email. Your account is secure.

To reset your password, click the link below:
%s

This reset link will expire in 24 hours.

Best regards,
The Mintleaf Team`, firstName, link)

	return message{
		subject: "Reset your Mintleaf password",
		html:    renderHTML(passwordResetHTML, firstName, link),
		text:    text,
	}
}
