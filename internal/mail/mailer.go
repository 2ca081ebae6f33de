// Package mail builds and delivers outbound account emails. Delivery is
// decoupled from request handling by a small in-process queue; a send
// failure is logged and never surfaced to the request that triggered it.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"mintleaf/internal/config"
)

// Mailer delivers a single email to a list of recipients.
type Mailer interface {
	Send(to []string, subject, htmlBody, textBody string) error
}

// SMTPMailer sends mail through a single SMTP relay using STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	fromName string
}

// NewSMTPMailer creates an SMTPMailer from application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		fromName: cfg.SMTPFromName,
	}
}

// Send builds a multipart/alternative message with plain-text and HTML
// parts and submits it to the relay.
func (m *SMTPMailer) Send(to []string, subject, htmlBody, textBody string) error {
	const boundary = "mintleaf-alt-boundary"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.user)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	if textBody != "" {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(textBody)
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return smtp.SendMail(addr, auth, m.user, to, []byte(msg.String()))
}
