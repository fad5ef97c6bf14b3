package event

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-management-api/internal/domain"
	"user-management-api/internal/notify"
	"user-management-api/internal/service"
	"user-management-api/internal/store"
	"user-management-api/internal/telemetry"
)

// faultyEngine lets a test knock the read path over.
type faultyEngine struct {
	*store.MemoryEngine
	getErr error
}

func (e *faultyEngine) Get(ctx context.Context, id string) (*domain.User, error) {
	if e.getErr != nil {
		return nil, e.getErr
	}
	return e.MemoryEngine.Get(ctx, id)
}

type routerFixture struct {
	router *Router
	engine *faultyEngine
	sink   *telemetry.MemorySink
}

func newRouterFixture() *routerFixture {
	engine := &faultyEngine{MemoryEngine: store.NewMemoryEngine()}
	sink := &telemetry.MemorySink{}
	emitter := telemetry.New(zap.NewNop(), sink)
	repo := store.NewRepository(engine, emitter, "User")
	users := service.NewUserService(repo, notify.NopPublisher{}, emitter, zap.NewNop())
	return &routerFixture{
		router: NewRouter(users, emitter, zap.NewNop()),
		engine: engine,
		sink:   sink,
	}
}

func ev(method, path string, body *domain.User) Event {
	return Event{
		Path:           path,
		HTTPMethod:     method,
		Body:           body,
		RequestContext: RequestContext{RequestID: "req-1"},
	}
}

func TestPostWithoutBodyIs400(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("POST", "/users", nil))
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, ErrorBody{Message: "missing body"}, resp.Body)
}

func TestUnknownMethodIs404(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("PATCH", "/users/u-1", nil))
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, ErrorBody{Message: "endpoint not found"}, resp.Body)
}

func TestCreateReturns201WithEntity(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("POST", "/users", &domain.User{Name: "Ann"}))
	require.Equal(t, 201, resp.StatusCode)

	created, ok := resp.Body.(*domain.User)
	require.True(t, ok)
	assert.NotEmpty(t, created.UserID)
	assert.Equal(t, "Ann", created.Name)
}

func TestGetFoundAndMissing(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()

	created := f.router.Handle(ctx, ev("POST", "/users", &domain.User{Name: "Ann"})).Body.(*domain.User)

	resp := f.router.Handle(ctx, ev("GET", "/users/"+created.UserID, nil))
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, created, resp.Body)

	resp = f.router.Handle(ctx, ev("GET", "/users/missing", nil))
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, ErrorBody{Message: "not found"}, resp.Body)
}

func TestPutReturnsPreUpdateEntity(t *testing.T) {
	f := newRouterFixture()
	ctx := context.Background()

	created := f.router.Handle(ctx, ev("POST", "/users", &domain.User{Name: "Ann"})).Body.(*domain.User)

	update := *created
	update.Name = "Bob"
	resp := f.router.Handle(ctx, ev("PUT", "/users", &update))
	require.Equal(t, 200, resp.StatusCode)
	returned := resp.Body.(*domain.User)
	assert.Equal(t, "Ann", returned.Name, "PUT returns the pre-update entity")

	after := f.router.Handle(ctx, ev("GET", "/users/"+created.UserID, nil)).Body.(*domain.User)
	assert.Equal(t, "Bob", after.Name)
}

// Not-found on update is not distinguished from generic failure at the HTTP
// layer; it surfaces as a 500.
func TestPutMissingUserIs500(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("PUT", "/users", &domain.User{UserID: "missing", Name: "Bob"}))
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, ErrorBody{Message: "internal server error"}, resp.Body)
}

func TestDeleteReturns204WithEmptyBody(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("DELETE", "/users/never-existed", nil))
	assert.Equal(t, 204, resp.StatusCode)
	assert.Nil(t, resp.Body)
}

func TestStoreFailureOnReadIs500WithOneErrorEmission(t *testing.T) {
	f := newRouterFixture()
	f.engine.getErr = errors.New("store unavailable")

	resp := f.router.Handle(context.Background(), ev("GET", "/users/u-1", nil))
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, ErrorBody{Message: "internal server error"}, resp.Body)

	var starts, errorsSeen int
	for _, rec := range f.sink.Records() {
		if strings.Contains(rec, "status=START") {
			starts++
		}
		if strings.Contains(rec, "status=ERROR") {
			errorsSeen++
		}
	}
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, errorsSeen, "exactly one error-class emission beside the start emission")
}

// A broken telemetry sink must never change any caller-visible outcome.
func TestSinkFailureNeverAltersStatusCodes(t *testing.T) {
	f := newRouterFixture()
	f.sink.Err = errors.New("sink down")
	ctx := context.Background()

	created := f.router.Handle(ctx, ev("POST", "/users", &domain.User{Name: "Ann"}))
	assert.Equal(t, 201, created.StatusCode)

	id := created.Body.(*domain.User).UserID
	assert.Equal(t, 200, f.router.Handle(ctx, ev("GET", "/users/"+id, nil)).StatusCode)
	assert.Equal(t, 404, f.router.Handle(ctx, ev("GET", "/users/missing", nil)).StatusCode)
	assert.Equal(t, 400, f.router.Handle(ctx, ev("POST", "/users", nil)).StatusCode)
	assert.Equal(t, 204, f.router.Handle(ctx, ev("DELETE", "/users/"+id, nil)).StatusCode)
}

func TestMissingRequestIDIsGenerated(t *testing.T) {
	f := newRouterFixture()
	e := ev("GET", "/users/missing", nil)
	e.RequestContext.RequestID = ""
	resp := f.router.Handle(context.Background(), e)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestShortPathReadsAsMiss(t *testing.T) {
	f := newRouterFixture()
	resp := f.router.Handle(context.Background(), ev("GET", "/users", nil))
	assert.Equal(t, 404, resp.StatusCode)
}
