package event

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-management-api/internal/service"
	"user-management-api/internal/telemetry"
)

const (
	msgMissingBody   = "missing body"
	msgNotFound      = "not found"
	msgNoEndpoint    = "endpoint not found"
	msgInternalError = "internal server error"
)

// Router is the single translation point between events and the user service.
// Every unhandled failure in the call chain surfaces here as a generic 500;
// the underlying error never leaks to the caller.
type Router struct {
	users   *service.UserService
	emitter *telemetry.Emitter
	log     *zap.Logger
}

func NewRouter(users *service.UserService, emitter *telemetry.Emitter, log *zap.Logger) *Router {
	return &Router{users: users, emitter: emitter, log: log}
}

func (r *Router) Handle(ctx context.Context, ev Event) (resp Response) {
	requestID := ev.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	r.log.Info("event received",
		zap.String("requestId", requestID),
		zap.String("method", ev.HTTPMethod),
		zap.String("path", ev.Path))
	r.emitter.InboundRequest(ctx, ev.HTTPMethod, ev.Path, requestID)

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic while handling event",
				zap.String("requestId", requestID), zap.Any("panic", rec))
			r.emitter.OperationError(ctx, "HANDLE_EVENT", "UNKNOWN", requestID, fmt.Errorf("panic: %v", rec))
			resp = errorResponse(http.StatusInternalServerError, msgInternalError)
		}
	}()

	switch ev.HTTPMethod {
	case http.MethodPost:
		return r.create(ctx, ev, requestID)
	case http.MethodGet:
		return r.get(ctx, ev, requestID)
	case http.MethodPut:
		return r.update(ctx, ev, requestID)
	case http.MethodDelete:
		return r.delete(ctx, ev, requestID)
	default:
		return errorResponse(http.StatusNotFound, msgNoEndpoint)
	}
}

func (r *Router) create(ctx context.Context, ev Event, requestID string) Response {
	if ev.Body == nil {
		return errorResponse(http.StatusBadRequest, msgMissingBody)
	}
	created, err := r.users.Create(ctx, *ev.Body, requestID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, msgInternalError)
	}
	return Response{StatusCode: http.StatusCreated, Body: created}
}

func (r *Router) get(ctx context.Context, ev Event, requestID string) Response {
	u, err := r.users.Get(ctx, pathID(ev.Path), requestID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, msgInternalError)
	}
	if u == nil {
		return errorResponse(http.StatusNotFound, msgNotFound)
	}
	return Response{StatusCode: http.StatusOK, Body: u}
}

func (r *Router) update(ctx context.Context, ev Event, requestID string) Response {
	if ev.Body == nil {
		return errorResponse(http.StatusBadRequest, msgMissingBody)
	}
	// 和读取/删除不同，更新的 id 取自 body 而不是路径。
	prev, err := r.users.Update(ctx, ev.Body.UserID, *ev.Body, requestID)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, msgInternalError)
	}
	return Response{StatusCode: http.StatusOK, Body: prev}
}

func (r *Router) delete(ctx context.Context, ev Event, requestID string) Response {
	if err := r.users.Delete(ctx, pathID(ev.Path), requestID); err != nil {
		return errorResponse(http.StatusInternalServerError, msgInternalError)
	}
	return Response{StatusCode: http.StatusNoContent, Body: nil}
}

// pathID extracts the identifier from the /resource/{id} convention. A short
// path yields an empty id, which reads as a miss downstream.
func pathID(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func errorResponse(status int, message string) Response {
	return Response{StatusCode: status, Body: ErrorBody{Message: message}}
}
