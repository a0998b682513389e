package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender is the subset of the SES API the workers use.
type SESSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	client *ses.Client
}

func NewSESClient(cfg awssdk.Config) *SESClient {
	return &SESClient{client: ses.NewFromConfig(cfg)}
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input, optFns...)
}

// TextEmail builds a plain-text message from one sender to recipients.
func TextEmail(from string, to []string, subject, body string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source:      awssdk.String(from),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body), Charset: awssdk.String("UTF-8")},
			},
		},
	}
}
