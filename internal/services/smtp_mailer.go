package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SMTPMailer sends plain text mail through an SMTP relay, using STARTTLS when
// the server offers it.
type SMTPMailer struct {
	host      string
	port      int
	user      string
	password  string
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

func NewSMTPMailer(host string, port int, user, password, fromEmail, fromName string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// Send implements Mailer. The context deadline bounds the whole SMTP dialogue.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	// net/smtp has no context support; closing the connection aborts it
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	if m.user != "" {
		if err := c.Auth(smtp.PlainAuth("", m.user, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}
	if err := c.Mail(m.fromEmail); err != nil {
		return fmt.Errorf("smtp MAIL FROM rejected: %w", err)
	}
	if err := c.Rcpt(msg.ToEmail); err != nil {
		return fmt.Errorf("smtp RCPT TO %s rejected: %w", msg.ToEmail, err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(m.compose(msg, time.Now())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp server rejected message: %w", err)
	}

	// The server accepted the message once DATA was answered. A failed QUIT
	// must not turn that into a failed send.
	if err := c.Quit(); err != nil {
		m.logger.Warn("SMTP QUIT failed after message was accepted",
			zap.String("to", msg.ToEmail),
			zap.Error(err),
		)
	}
	return nil
}

func (m *SMTPMailer) compose(msg Message, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + formatAddress(m.fromName, m.fromEmail) + "\r\n")
	b.WriteString("To: " + formatAddress(msg.ToName, msg.ToEmail) + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.PlainText, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

func formatAddress(name, email string) string {
	if name == "" {
		return "<" + email + ">"
	}
	return mime.QEncoding.Encode("utf-8", name) + " <" + email + ">"
}
