// Package telemetry formats and best-effort-ships structured operation records.
// Nothing in here is allowed to fail its caller: sink errors are logged locally
// and swallowed.
package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink is the external append-only record destination.
type Sink interface {
	Write(ctx context.Context, stream, message string, ts time.Time) error
}

// Emitter builds one flat key=value record per call, writes a local structured
// log line and forwards the record to the sink.
type Emitter struct {
	log  *zap.Logger
	sink Sink
	now  func() time.Time
}

func New(log *zap.Logger, sink Sink) *Emitter {
	return &Emitter{log: log, sink: sink, now: time.Now}
}

func (e *Emitter) OperationStart(ctx context.Context, operation, userID, requestID string) {
	e.emit(ctx, map[string]string{
		"timestamp": e.now().UTC().Format(time.RFC3339Nano),
		"operation": operation,
		"userId":    userID,
		"requestId": requestID,
		"status":    "START",
		"level":     "INFO",
	})
	e.log.Info("operation started",
		zap.String("operation", operation), zap.String("userId", userID), zap.String("requestId", requestID))
}

func (e *Emitter) OperationSuccess(ctx context.Context, operation, userID, requestID string, duration time.Duration) {
	e.emit(ctx, map[string]string{
		"timestamp":  e.now().UTC().Format(time.RFC3339Nano),
		"operation":  operation,
		"userId":     userID,
		"requestId":  requestID,
		"durationMs": strconv.FormatInt(duration.Milliseconds(), 10),
		"status":     "SUCCESS",
		"level":      "INFO",
	})
	e.log.Info("operation completed",
		zap.String("operation", operation), zap.String("userId", userID),
		zap.String("requestId", requestID), zap.Duration("duration", duration))
}

func (e *Emitter) OperationError(ctx context.Context, operation, userID, requestID string, err error) {
	e.emit(ctx, map[string]string{
		"timestamp": e.now().UTC().Format(time.RFC3339Nano),
		"operation": operation,
		"userId":    userID,
		"requestId": requestID,
		"error":     err.Error(),
		"errorType": fmt.Sprintf("%T", err),
		"status":    "ERROR",
		"level":     "ERROR",
	})
	e.log.Error("operation failed",
		zap.String("operation", operation), zap.String("userId", userID),
		zap.String("requestId", requestID), zap.Error(err))
}

func (e *Emitter) StoreAccess(ctx context.Context, operation, table, itemID string, success bool, duration time.Duration) {
	e.emit(ctx, map[string]string{
		"timestamp":  e.now().UTC().Format(time.RFC3339Nano),
		"service":    "store",
		"operation":  operation,
		"table":      table,
		"itemId":     itemID,
		"success":    strconv.FormatBool(success),
		"durationMs": strconv.FormatInt(duration.Milliseconds(), 10),
		"level":      "DEBUG",
	})
	e.log.Debug("store access",
		zap.String("operation", operation), zap.String("table", table),
		zap.String("itemId", itemID), zap.Bool("success", success), zap.Duration("duration", duration))
}

func (e *Emitter) InboundRequest(ctx context.Context, httpMethod, path, requestID string) {
	e.emit(ctx, map[string]string{
		"timestamp":  e.now().UTC().Format(time.RFC3339Nano),
		"source":     "gateway",
		"httpMethod": httpMethod,
		"path":       path,
		"requestId":  requestID,
		"level":      "INFO",
	})
	e.log.Info("inbound request",
		zap.String("method", httpMethod), zap.String("path", path), zap.String("requestId", requestID))
}

func (e *Emitter) ValidationError(ctx context.Context, field, reason, requestID string) {
	e.emit(ctx, map[string]string{
		"timestamp": e.now().UTC().Format(time.RFC3339Nano),
		"field":     field,
		"reason":    reason,
		"requestId": requestID,
		"level":     "WARN",
	})
	e.log.Warn("validation error",
		zap.String("field", field), zap.String("reason", reason), zap.String("requestId", requestID))
}

// emit forwards one record to the sink. 失败只打本地日志，绝不上抛。
func (e *Emitter) emit(ctx context.Context, record map[string]string) {
	ts := e.now()
	stream := fmt.Sprintf("lambda-%d-%s", ts.Unix(), uuid.NewString()[:8])
	if err := e.sink.Write(ctx, stream, formatRecord(record), ts); err != nil {
		e.log.Warn("telemetry sink write failed", zap.Error(err))
	}
}

// formatRecord renders key=value pairs in a stable order.
func formatRecord(record map[string]string) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+record[k])
	}
	return strings.Join(parts, " | ")
}
