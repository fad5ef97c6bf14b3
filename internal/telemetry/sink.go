package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
)

type logsAPI interface {
	PutLogEventsWithContext(aws.Context, *cloudwatchlogs.PutLogEventsInput, ...request.Option) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchSink ships records to a fixed log group, one event per record.
type CloudWatchSink struct {
	client logsAPI
	group  string
}

func NewCloudWatchSink(client logsAPI, group string) *CloudWatchSink {
	return &CloudWatchSink{client: client, group: group}
}

func (s *CloudWatchSink) Write(ctx context.Context, stream, message string, ts time.Time) error {
	_, err := s.client.PutLogEventsWithContext(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(s.group),
		LogStreamName: aws.String(stream),
		LogEvents: []*cloudwatchlogs.InputLogEvent{{
			Timestamp: aws.Int64(ts.UnixMilli()),
			Message:   aws.String(message),
		}},
	})
	return err
}

// NopSink discards every record. Used when no external sink is configured.
type NopSink struct{}

func (NopSink) Write(context.Context, string, string, time.Time) error { return nil }

// MemorySink captures records for assertions and can be told to fail.
type MemorySink struct {
	mu      sync.Mutex
	records []string
	streams []string
	Err     error
}

func (s *MemorySink) Write(_ context.Context, stream, message string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = append(s.records, message)
	s.streams = append(s.streams, stream)
	return nil
}

func (s *MemorySink) Streams() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.streams...)
}

func (s *MemorySink) Records() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.records...)
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.streams = nil
}
