package email

import (
	"context"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPSender delivers mail through an SMTP relay
type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLContent)

	// gomail has no context support; honour cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}
