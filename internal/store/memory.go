package store

import (
	"context"
	"sync"

	"user-management-api/internal/domain"
)

// MemoryEngine is a process-local engine for development and tests. It copies
// entities on the way in and out so callers never share a pointer with the map.
type MemoryEngine struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{items: make(map[string]domain.User)}
}

func (e *MemoryEngine) Put(_ context.Context, u *domain.User) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items[u.UserID] = *u
	return nil
}

func (e *MemoryEngine) Get(_ context.Context, userID string) (*domain.User, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	u, ok := e.items[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (e *MemoryEngine) Update(ctx context.Context, u *domain.User) error {
	return e.Put(ctx, u)
}

func (e *MemoryEngine) Delete(_ context.Context, userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.items, userID)
	return nil
}

func (e *MemoryEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}
