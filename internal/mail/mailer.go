// Package mail sends the trip planner's transactional emails.
// A Mailer delivers a rendered Message; a Composer renders the messages.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	netmail "net/mail"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// String formats the address as an RFC 5322 mailbox, quoting or RFC 2047
// encoding the name as needed, or just the email when the name is empty.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&netmail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      Address
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single message. Implementations must be safe for
// concurrent use: trip confirmation sends invitations in parallel.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Config selects and configures the delivery provider.
type Config struct {
	Provider string // smtp, ses, log or noop
	From     Address
	SMTP     SMTPConfig
	SES      SESConfig
}

// NewMailer builds the Mailer for cfg.Provider. An unknown provider falls
// back to the log mailer so local runs never need mail credentials.
func NewMailer(cfg Config, log *slog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("mail.NewMailer: smtp provider requires SMTP_HOST")
		}
		return newSMTPMailer(cfg.SMTP, cfg.From), nil
	case "ses":
		if cfg.SES.Region == "" || cfg.SES.AccessKeyID == "" || cfg.SES.SecretAccessKey == "" {
			return nil, fmt.Errorf("mail.NewMailer: ses provider requires SES_REGION, SES_ACCESS_KEY_ID and SES_SECRET_ACCESS_KEY")
		}
		return newSESMailer(cfg.SES, cfg.From), nil
	case "log", "noop", "":
		return NewLogMailer(log), nil
	default:
		log.Warn("unknown mail provider, using log mailer", "provider", cfg.Provider)
		return NewLogMailer(log), nil
	}
}

// LogMailer writes each message to the logger instead of delivering it.
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.InfoContext(ctx, "mail not delivered (log provider)",
		"to", msg.To.Email,
		"subject", msg.Subject,
	)
	m.log.DebugContext(ctx, "mail body", "to", msg.To.Email, "text", msg.Text)
	return nil
}
