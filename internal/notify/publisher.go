// Package notify delivers best-effort notifications. A failed publish is the
// caller's problem to log, never a reason to stop the process.
package notify

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sns"
	"go.uber.org/zap"
)

// Publisher attempts delivery of a serialized message exactly once.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

type snsAPI interface {
	PublishWithContext(aws.Context, *sns.PublishInput, ...request.Option) (*sns.PublishOutput, error)
}

// SNSPublisher publishes to a fixed topic resolved once at startup.
type SNSPublisher struct {
	client snsAPI
	topic  string
	log    *zap.Logger
}

func NewSNSPublisher(client snsAPI, topicARN string, log *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, topic: topicARN, log: log}
}

func (p *SNSPublisher) Publish(ctx context.Context, message string) error {
	out, err := p.client.PublishWithContext(ctx, &sns.PublishInput{
		Message:  aws.String(message),
		TopicArn: aws.String(p.topic),
	})
	if err != nil {
		return err
	}
	p.log.Info("notification published",
		zap.String("topic", p.topic), zap.String("messageId", aws.StringValue(out.MessageId)))
	return nil
}

// NopPublisher is used when no topic is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string) error { return nil }
