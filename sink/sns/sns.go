package sns

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pkg/errors"

	relay "github.com/alexgridx/data-relay"
)

// PublishAPI is the part of the SNS client used by Publisher.
type PublishAPI interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Option is used to override defaults when creating a new Publisher
type Option func(*Publisher)

// WithClient overrides the default SNS client
func WithClient(client PublishAPI) Option {
	return func(p *Publisher) {
		p.client = client
	}
}

// Publisher sends messages to a single SNS topic.
type Publisher struct {
	topicARN string
	client   PublishAPI
}

// New returns a Publisher for topicARN. Without WithClient the client is
// built from the default AWS configuration chain.
func New(topicARN string, opts ...Option) (*Publisher, error) {
	if topicARN == "" {
		return nil, errors.New("must provide topic arn")
	}

	p := &Publisher{topicARN: topicARN}
	for _, opt := range opts {
		opt(p)
	}

	// default client
	if p.client == nil {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, errors.Wrap(err, "load aws config")
		}
		p.client = awssns.NewFromConfig(cfg)
	}

	return p, nil
}

// Publish sends message with subject and returns the SNS message id.
func (p *Publisher) Publish(ctx context.Context, subject, message string) (string, error) {
	out, err := p.client.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", errors.Wrapf(err, "sns: publish to %s", p.topicARN)
	}
	return aws.ToString(out.MessageId), nil
}

var _ relay.Publisher = (*Publisher)(nil)
