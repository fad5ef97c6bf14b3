package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOperationRecordsCarryExpectedFields(t *testing.T) {
	sink := &MemorySink{}
	e := New(zap.NewNop(), sink)
	e.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	e.OperationStart(ctx, "CREATE_USER", "NEW", "req-1")
	e.OperationSuccess(ctx, "CREATE_USER", "u-1", "req-1", 25*time.Millisecond)
	e.OperationError(ctx, "GET_USER", "u-1", "req-1", errors.New("boom"))
	e.StoreAccess(ctx, "PutItem", "User", "u-1", true, 5*time.Millisecond)
	e.InboundRequest(ctx, "POST", "/users", "req-1")
	e.ValidationError(ctx, "userId", "user not found", "req-1")

	recs := sink.Records()
	require.Len(t, recs, 6)

	assert.Contains(t, recs[0], "operation=CREATE_USER")
	assert.Contains(t, recs[0], "status=START")
	assert.Contains(t, recs[0], "userId=NEW")
	assert.Contains(t, recs[0], "requestId=req-1")

	assert.Contains(t, recs[1], "status=SUCCESS")
	assert.Contains(t, recs[1], "durationMs=25")

	assert.Contains(t, recs[2], "status=ERROR")
	assert.Contains(t, recs[2], "error=boom")
	assert.Contains(t, recs[2], "errorType=")

	assert.Contains(t, recs[3], "service=store")
	assert.Contains(t, recs[3], "table=User")
	assert.Contains(t, recs[3], "success=true")

	assert.Contains(t, recs[4], "httpMethod=POST")
	assert.Contains(t, recs[4], "path=/users")

	assert.Contains(t, recs[5], "field=userId")
	assert.Contains(t, recs[5], "reason=user not found")
}

func TestRecordFormatIsStable(t *testing.T) {
	got := formatRecord(map[string]string{"b": "2", "a": "1", "c": "3"})
	assert.Equal(t, "a=1 | b=2 | c=3", got)
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := &MemorySink{Err: errors.New("sink down")}
	e := New(zap.New(core), sink)

	// 不应该 panic，也没有任何错误可以传播出去
	e.OperationStart(context.Background(), "GET_USER", "u-1", "req-1")

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.NotEmpty(t, warns)
	assert.True(t, strings.Contains(warns[0].Message, "telemetry sink write failed"))
	assert.Empty(t, sink.Records())
}

func TestStreamNamesVaryWithinOneSecond(t *testing.T) {
	// 流名带随机后缀，同一秒内多次写不会互相覆盖
	sink := &MemorySink{}
	e := New(zap.NewNop(), sink)
	now := time.Now()
	e.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		e.OperationStart(context.Background(), "GET_USER", "u-1", "req-1")
	}

	seen := map[string]bool{}
	for _, s := range sink.Streams() {
		assert.True(t, strings.HasPrefix(s, "lambda-"))
		seen[s] = true
	}
	assert.Len(t, seen, 10)
}
