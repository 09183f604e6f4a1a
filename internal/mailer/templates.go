package mailer

import (
	"bytes"
	"html/template"
)

var twoFactorTmpl = template.Must(template.New("two-factor").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; text-align: center;">Tavero</h1>
  <h2 style="color: #666; text-align: center;">Your Login Verification Code</h2>
  <div style="background: #f5f5f5; padding: 30px; text-align: center; margin: 20px 0; border-radius: 8px;">
    <p style="font-size: 32px; font-weight: bold; color: #333; letter-spacing: 8px; margin: 0;">{{.Code}}</p>
  </div>
  <p style="color: #666; text-align: center;">This code will expire in 10 minutes.</p>
  <p style="color: #999; font-size: 12px; text-align: center; margin-top: 30px;">
    If you didn't request this code, please ignore this email.
  </p>
</div>
`))

var passwordResetTmpl = template.Must(template.New("password-reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; text-align: center;">Tavero</h1>
  <h2 style="color: #666; text-align: center;">Password Reset Request</h2>
  <p style="color: #666; text-align: center;">
    We received a request to reset your password. Click the button below to create a new password.
  </p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.ResetURL}}" style="background: #333; color: #fff; padding: 15px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">
      Reset Password
    </a>
  </div>
  <p style="color: #666; text-align: center; font-size: 14px;">
    Or copy and paste this link into your browser:
  </p>
  <p style="color: #999; text-align: center; font-size: 12px; word-break: break-all;">{{.ResetURL}}</p>
  <p style="color: #666; text-align: center;">This link will expire in 1 hour.</p>
  <p style="color: #999; font-size: 12px; text-align: center; margin-top: 30px;">
    If you didn't request a password reset, please ignore this email.
  </p>
</div>
`))

func renderTwoFactorEmail(code string) (string, error) {
	var buf bytes.Buffer
	if err := twoFactorTmpl.Execute(&buf, map[string]string{"Code": code}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderPasswordResetEmail(resetURL string) (string, error) {
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, map[string]string{"ResetURL": resetURL}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
