// Package store translates User CRUD into key-value engine calls and
// instruments every call with duration and outcome telemetry.
package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"

	"user-management-api/internal/core/awsx"
	"user-management-api/internal/core/config"
	"user-management-api/internal/domain"
)

// Engine is the raw key-value contract. Get returns (nil, nil) when the key is
// absent; absence is a normal outcome, not an error.
type Engine interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, userID string) error
}

// Open builds the engine selected by config. sess 只有 dynamodb 驱动用得到。
func Open(cfg *config.Config, sess *session.Session) (Engine, error) {
	switch cfg.Store.Driver {
	case "dynamodb":
		if sess == nil {
			return nil, fmt.Errorf("store: dynamodb driver requires an aws session")
		}
		return NewDynamoEngine(awsx.NewDynamoDB(sess), cfg.Store.Table), nil
	case "redis":
		return NewRedisEngine(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), nil
	case "mysql", "postgres":
		return NewGormEngine(cfg)
	case "memory":
		return NewMemoryEngine(), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Store.Driver)
	}
}
