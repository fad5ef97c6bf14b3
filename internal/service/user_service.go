// Package service drives the User lifecycle: it validates intent, stamps
// identity and timestamps, calls the store and the notification publisher, and
// wraps every path with operation telemetry.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-management-api/internal/domain"
	"user-management-api/internal/notify"
	"user-management-api/internal/store"
	"user-management-api/internal/telemetry"
)

type UserService struct {
	repo      *store.Repository
	publisher notify.Publisher
	emitter   *telemetry.Emitter
	log       *zap.Logger
	now       func() time.Time
}

func NewUserService(repo *store.Repository, publisher notify.Publisher, emitter *telemetry.Emitter, log *zap.Logger) *UserService {
	return &UserService{repo: repo, publisher: publisher, emitter: emitter, log: log, now: time.Now}
}

// Create mints a fresh entity, persists it and publishes the created user as a
// JSON message. Publish failure is a telemetered miss, not a fatal condition.
func (s *UserService) Create(ctx context.Context, in domain.User, requestID string) (*domain.User, error) {
	start := s.now()
	s.emitter.OperationStart(ctx, "CREATE_USER", "NEW", requestID)
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	u := domain.NewUser(in, start.UnixMilli())
	if err := s.repo.Save(ctx, &u, requestID); err != nil {
		s.emitter.OperationError(ctx, "CREATE_USER", u.UserID, requestID, err)
		return nil, err
	}

	payload, err := json.Marshal(u)
	if err != nil {
		s.emitter.OperationError(ctx, "CREATE_USER", "UNKNOWN", requestID, err)
		return nil, fmt.Errorf("serialize created user: %w", err)
	}
	if err := s.publisher.Publish(ctx, string(payload)); err != nil {
		// 投递失败不影响创建结果，只记一条错误遥测。
		s.emitter.OperationError(ctx, "PUBLISH_USER_CREATED", u.UserID, requestID, err)
		s.log.Warn("user-created notification missed", zap.String("userId", u.UserID), zap.Error(err))
	}

	s.emitter.OperationSuccess(ctx, "CREATE_USER", u.UserID, requestID, s.now().Sub(start))
	return &u, nil
}

// Get returns (nil, nil) when the user does not exist; absence is a normal
// outcome surfaced to the router, not an error.
func (s *UserService) Get(ctx context.Context, userID, requestID string) (*domain.User, error) {
	start := s.now()
	s.emitter.OperationStart(ctx, "GET_USER", userID, requestID)

	u, err := s.repo.FindByID(ctx, userID, requestID)
	if err != nil {
		s.emitter.OperationError(ctx, "GET_USER", userID, requestID, err)
		return nil, err
	}
	s.emitter.OperationSuccess(ctx, "GET_USER", userID, requestID, s.now().Sub(start))
	return u, nil
}

// Update replaces name/email/phone, carries createdAt forward and refreshes
// updatedAt. The returned entity is the PRE-update snapshot: callers that need
// the new state must read again. 这是沿用下来的对外契约，别“顺手修掉”。
func (s *UserService) Update(ctx context.Context, userID string, in domain.User, requestID string) (*domain.User, error) {
	start := s.now()
	s.emitter.OperationStart(ctx, "UPDATE_USER", userID, requestID)

	existing, err := s.repo.FindByID(ctx, userID, requestID)
	if err != nil {
		s.emitter.OperationError(ctx, "UPDATE_USER", userID, requestID, err)
		return nil, err
	}
	if existing == nil {
		s.emitter.ValidationError(ctx, "userId", "user not found", requestID)
		err := fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		s.emitter.OperationError(ctx, "UPDATE_USER", userID, requestID, err)
		return nil, err
	}

	replacement := domain.User{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.Update(ctx, &replacement, requestID); err != nil {
		s.emitter.OperationError(ctx, "UPDATE_USER", userID, requestID, err)
		return nil, err
	}
	s.emitter.OperationSuccess(ctx, "UPDATE_USER", userID, requestID, s.now().Sub(start))
	return existing, nil
}

// Delete is unconditional and idempotent: no existence check, no error for a
// userID that never existed.
func (s *UserService) Delete(ctx context.Context, userID, requestID string) error {
	start := s.now()
	s.emitter.OperationStart(ctx, "DELETE_USER", userID, requestID)

	if err := s.repo.Delete(ctx, userID, requestID); err != nil {
		s.emitter.OperationError(ctx, "DELETE_USER", userID, requestID, err)
		return err
	}
	s.emitter.OperationSuccess(ctx, "DELETE_USER", userID, requestID, s.now().Sub(start))
	return nil
}
