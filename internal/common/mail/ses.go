package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the part of the SES client the mailer needs.
type SESService interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESMailer sends raw MIME messages through Amazon SES.
type SESMailer struct {
	client           SESService
	configurationSet string
	now              func() time.Time
}

func NewSESMailer(client SESService, configurationSet string) *SESMailer {
	return &SESMailer{client: client, configurationSet: configurationSet, now: time.Now}
}

func (m *SESMailer) Send(ctx context.Context, msg Message) (Receipt, error) {
	raw, _, err := Encode(msg, m.now())
	if err != nil {
		return Receipt{}, err
	}

	input := &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw},
		Source:       aws.String(msg.envelopeFrom()),
		Destinations: msg.envelopeTo(),
	}
	if m.configurationSet != "" {
		input.ConfigurationSetName = aws.String(m.configurationSet)
	}

	out, err := m.client.SendRawEmail(ctx, input)
	if err != nil {
		return Receipt{}, fmt.Errorf("ses send raw email: %w", err)
	}
	return Receipt{MessageID: aws.ToString(out.MessageId), Provider: ProviderSES}, nil
}
