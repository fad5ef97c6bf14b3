package store

import (
	"context"
	"time"

	"user-management-api/internal/domain"
	"user-management-api/internal/telemetry"
)

// Repository wraps an engine with wall-clock measurement and store-access
// telemetry. Outcomes are reported whether the call succeeds or fails; the
// underlying error is always re-raised unchanged.
type Repository struct {
	engine  Engine
	emitter *telemetry.Emitter
	table   string
}

func NewRepository(engine Engine, emitter *telemetry.Emitter, table string) *Repository {
	return &Repository{engine: engine, emitter: emitter, table: table}
}

func (r *Repository) Save(ctx context.Context, u *domain.User, requestID string) error {
	start := time.Now()
	err := r.engine.Put(ctx, u)
	r.emitter.StoreAccess(ctx, "PutItem", r.table, u.UserID, err == nil, time.Since(start))
	return err
}

// FindByID reports success only when the item was actually found, matching the
// way a read miss is accounted for upstream.
func (r *Repository) FindByID(ctx context.Context, userID, requestID string) (*domain.User, error) {
	start := time.Now()
	u, err := r.engine.Get(ctx, userID)
	r.emitter.StoreAccess(ctx, "GetItem", r.table, userID, err == nil && u != nil, time.Since(start))
	return u, err
}

func (r *Repository) Update(ctx context.Context, u *domain.User, requestID string) error {
	start := time.Now()
	err := r.engine.Update(ctx, u)
	r.emitter.StoreAccess(ctx, "UpdateItem", r.table, u.UserID, err == nil, time.Since(start))
	return err
}

func (r *Repository) Delete(ctx context.Context, userID, requestID string) error {
	start := time.Now()
	err := r.engine.Delete(ctx, userID)
	r.emitter.StoreAccess(ctx, "DeleteItem", r.table, userID, err == nil, time.Since(start))
	return err
}
