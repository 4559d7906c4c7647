package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/wb-go/wbf/logger"
)

// SMTPMailer sends plain-text mail through one SMTP relay. With no host
// configured it runs disabled and only logs what it would have sent.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	log  logger.Logger
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg Config, log logger.Logger) *SMTPMailer {
	if cfg.Host == "" {
		log.Warn("smtp host is empty, email sending disabled")
		return &SMTPMailer{log: log}
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
		log:  log,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.addr == "" {
		m.log.Debug("email skipped (mailer disabled)",
			logger.String("to", to),
			logger.String("subject", subject),
		)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mailyak.New(m.addr, m.auth)
	msg.From(m.from)
	msg.To(to)
	msg.Subject(subject)
	msg.Plain().Set(body)

	if err := msg.Send(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
