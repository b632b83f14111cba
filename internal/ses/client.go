// Package ses wraps the Amazon SES v2 API as the campaign email transport.
package ses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
	"github.com/unclebandit/mailleopard-backend/internal/model"
)

// Factory builds one transport client per send request from the resolved
// account credentials. Clients are never cached: a cached client could
// carry one account's credentials into another account's campaign.
type Factory struct {
	production      bool
	sandboxEndpoint string
	sendTimeout     time.Duration
}

func NewFactory(production bool, sandboxEndpoint string, sendTimeout time.Duration) *Factory {
	return &Factory{
		production:      production,
		sandboxEndpoint: sandboxEndpoint,
		sendTimeout:     sendTimeout,
	}
}

// New constructs a client scoped to the given credentials. Outside
// production the client targets the sandbox endpoint with the same
// credential shape, so tests never reach live infrastructure.
func (f *Factory) New(ctx context.Context, setting *model.Setting) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(
		setting.AccessKey,
		setting.SecretKey,
		"", // no session token for static credentials
	)

	region := setting.Region
	if region == "" && !f.production {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var opts []func(*sesv2.Options)
	if !f.production {
		endpoint := f.sandboxEndpoint
		opts = append(opts, func(o *sesv2.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &Client{
		client:  sesv2.NewFromConfig(awsCfg, opts...),
		timeout: f.sendTimeout,
	}, nil
}

// Client submits campaign emails through SES.
type Client struct {
	client  *sesv2.Client
	timeout time.Duration
}

// BuildMessage assembles the wire-format message for one recipient.
func (c *Client) BuildMessage(to string, campaign *model.Campaign, body string) *sesv2.SendEmailInput {
	content := &types.Body{}
	if campaign.Type == model.TypePlaintext {
		content.Text = &types.Content{Data: aws.String(body)}
	} else {
		content.Html = &types.Content{Data: aws.String(body)}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", campaign.FromName, campaign.FromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(campaign.EmailSubject)},
				Body:    content,
			},
		},
	}
}

// SendMessage submits a built message and returns the provider message id.
// Provider rejections come back as ErrTransport carrying the provider's raw
// reason; a deadline hit is flagged as a timeout instead of hanging.
func (c *Client) SendMessage(ctx context.Context, msg *sesv2.SendEmailInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.SendEmail(ctx, msg)
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
		return "", appErrors.NewTransport(err.Error(), timedOut)
	}
	return aws.ToString(out.MessageId), nil
}

// Send builds and submits a message for one recipient.
func (c *Client) Send(ctx context.Context, to string, campaign *model.Campaign, body string) (string, error) {
	return c.SendMessage(ctx, c.BuildMessage(to, campaign, body))
}
