// Package awsx builds the shared AWS session and service clients once at
// process start; handles are passed down, never looked up at runtime.
package awsx

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/sns"
)

// NewSession resolves credentials from the environment / instance role.
// endpoint 仅用于本地模拟（localstack 等），生产留空。
func NewSession(region, endpoint string) (*session.Session, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	return session.NewSession(cfg)
}

func NewDynamoDB(sess *session.Session) *dynamodb.DynamoDB { return dynamodb.New(sess) }

func NewSNS(sess *session.Session) *sns.SNS { return sns.New(sess) }

func NewCloudWatchLogs(sess *session.Session) *cloudwatchlogs.CloudWatchLogs {
	return cloudwatchlogs.New(sess)
}
