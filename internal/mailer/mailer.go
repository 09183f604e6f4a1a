// Package mailer is the email-dispatch collaborator. Handlers depend on the
// Mailer interface so tests can swap in a fake; the SMTP implementation is
// the only one used in production.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"backend/internal/apperr"
)

type Mailer interface {
	Send2FACode(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func NewSMTP(host, port, username, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

func (m *SMTPMailer) Send2FACode(ctx context.Context, to, code string) error {
	body, err := renderTwoFactorEmail(code)
	if err != nil {
		return apperr.Wrap(apperr.KindEmail, "failed to send verification code", err)
	}
	return m.send(ctx, to, "Your Tavero Login Code", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body, err := renderPasswordResetEmail(resetURL)
	if err != nil {
		return apperr.Wrap(apperr.KindEmail, "failed to send reset link", err)
	}
	return m.send(ctx, to, "Reset Your Tavero Password", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", m.fromName, m.from)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	log.Printf("[MAIL] [INFO] sending to=%s subject=%q", to, subject)

	if err := m.sendSMTP(ctx, to, []byte(msg)); err != nil {
		log.Printf("[MAIL] [ERROR] send failed to=%s: %v", to, err)
		return apperr.Wrap(apperr.KindEmail, "failed to send email", err)
	}

	log.Printf("[MAIL] [INFO] sent to=%s", to)
	return nil
}

func (m *SMTPMailer) sendSMTP(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := net.Dialer{Timeout: 8 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation, not just the dial.
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
