package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// sesAPI is the subset of *ses.Client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesMailer struct {
	client sesAPI
	from   Address
}

func newSESMailer(cfg SESConfig, from Address, optFns ...func(*ses.Options)) *sesMailer {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	return &sesMailer{client: ses.NewFromConfig(awsCfg, optFns...), from: from}
}

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	if _, err := m.client.SendEmail(ctx, buildSESInput(m.from, msg)); err != nil {
		return fmt.Errorf("mail.ses.Send: %w", err)
	}
	return nil
}

func buildSESInput(from Address, msg Message) *ses.SendEmailInput {
	in := &ses.SendEmailInput{
		Source: aws.String(from.String()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To.String()},
		},
		Message: &types.Message{
			Subject: utf8Content(msg.Subject),
			Body:    &types.Body{},
		},
	}
	if msg.HTML != "" {
		in.Message.Body.Html = utf8Content(msg.HTML)
	}
	if msg.Text != "" {
		in.Message.Body.Text = utf8Content(msg.Text)
	}
	return in
}

func utf8Content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}
