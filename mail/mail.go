// Package mail delivers the transactional emails of the auth flows:
// the email-verification link sent on registration and the password-reset token.
package mail

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/logging"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	// Text is the plain-text alternative; HTML is the preferred body.
	Text string
	HTML string
}

// Sender delivers a Message. Implementations must honour ctx cancellation
// at least before starting to deliver.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the sender for cfg: SMTP when a host is configured,
// otherwise a sender that only logs, which is what local development wants.
func New(cfg *config.MailConfig, logger logging.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends mail through an SMTP relay using gomail.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTPSender creates an SMTPSender. Empty credentials skip SMTP AUTH.
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Username == "" {
		dialer.Auth = nil
	}
	return &SMTPSender{from: cfg.From, dialer: dialer}
}

// Send builds the MIME message and delivers it in a single SMTP session.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return apperror.NewExternalServiceError(fmt.Sprintf("failed to send mail to %s", msg.To), err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info(ctx, "mail not sent, no SMTP host configured",
		"to", msg.To, "subject", msg.Subject, "text", msg.Text, "html", msg.HTML)
	return nil
}

// VerificationEmail is sent after registration. link is the full verify-email URL.
func VerificationEmail(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Verification your email",
		Text:    "Click here to verify your email: " + link,
		HTML:    fmt.Sprintf(`<a href="%s">Click here to verify your email</a>`, html.EscapeString(link)),
	}
}

// ResetPasswordEmail carries the raw reset token; the client posts it back
// to /auth/reset-password.
func ResetPasswordEmail(to, token string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text:    "Token : " + token,
		HTML:    "Token : " + html.EscapeString(token),
	}
}
