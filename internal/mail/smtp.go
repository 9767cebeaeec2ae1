package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type smtpMailer struct {
	dialer *gomail.Dialer
	from   Address
}

func newSMTPMailer(cfg SMTPConfig, from Address) *smtpMailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

// Send dials the relay once per message. gomail has no context support,
// so a cancelled context is only honoured before dialing.
func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(buildSMTPMessage(m.from, msg)); err != nil {
		return fmt.Errorf("mail.smtp.Send: %w", err)
	}
	return nil
}

func buildSMTPMessage(from Address, msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", from.Email, from.Name)
	if msg.To.Name != "" {
		gm.SetAddressHeader("To", msg.To.Email, msg.To.Name)
	} else {
		gm.SetHeader("To", msg.To.Email)
	}
	gm.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		gm.SetBody("text/html", msg.HTML)
	default:
		gm.SetBody("text/plain", msg.Text)
	}
	return gm
}
