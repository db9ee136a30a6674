package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"seatledger/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// NotifierConfig holds configuration for creating a notifier.
type NotifierConfig struct {
	Provider  string
	From      string
	OpsAddress string
	SES       SESConfig
}

// NewNotifier creates a notifier from config. Provider "ses" sends sold-out
// notices via AWS SES; "noop" or unknown logs and drops them.
func NewNotifier(config NotifierConfig, logger *slog.Logger) (domain.Notifier, error) {
	switch config.Provider {
	case "ses":
		if config.SES.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES; use only in development")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: config.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					config.SES.AccessKeyID,
					config.SES.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesNotifier{
			client: ses.NewFromConfig(awsCfg),
			from:   config.From,
			to:     config.OpsAddress,
			logger: logger,
		}, nil
	case "noop", "":
		return &noopNotifier{logger: logger}, nil
	default:
		logger.Warn("unknown notifier provider, using noop", "provider", config.Provider)
		return &noopNotifier{logger: logger}, nil
	}
}

type sesNotifier struct {
	client *ses.Client
	from   string
	to     string
	logger *slog.Logger
}

func (n *sesNotifier) NotifySoldOut(ctx context.Context, event *domain.Event) error {
	subject := fmt.Sprintf("Sold out: %s (event %d)", event.Name, event.ID)
	text := fmt.Sprintf(
		"Event %d %q is sold out.\nSeats: %d/%d\nStarts at: %s\n",
		event.ID, event.Name, event.SeatsSold, event.SeatsTotal, event.StartsAt.UTC().Format("2006-01-02 15:04 MST"),
	)
	input := &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: []string{n.to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(text),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	n.logger.InfoContext(ctx, "sold-out notice sent", "event_id", event.ID, "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopNotifier struct {
	logger *slog.Logger
}

func (n *noopNotifier) NotifySoldOut(ctx context.Context, event *domain.Event) error {
	n.logger.InfoContext(ctx, "sold-out notice would be sent (noop)", "event_id", event.ID, "name", event.Name)
	return nil
}
