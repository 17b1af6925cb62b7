package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/pandenic/media-review-board/internal/config"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New returns an SMTP mailer, or a logging one when no SMTP host is set.
func New(cfg config.MailConfig, log *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{Log: log}
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := "From: " + s.cfg.From + "\r\n" +
		"To: " + m.To + "\r\n" +
		"Subject: " + m.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		m.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{m.To}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	Log *slog.Logger
}

func (l *LogMailer) Send(_ context.Context, m Message) error {
	l.Log.Info("mail not delivered, SMTP not configured", "to", m.To, "subject", m.Subject, "body", m.Body)
	return nil
}
