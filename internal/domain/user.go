package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when the requested user does not exist in the store.
var ErrUserNotFound = errors.New("user not found")

// User is the persisted entity and, at the same time, the wire shape used by the
// inbound event body and the outbound response payload. Timestamps are epoch millis.
type User struct {
	UserID    string `json:"userId" gorm:"column:user_id;primaryKey;size:36"`
	Name      string `json:"name" gorm:"size:64"`
	Email     string `json:"email" gorm:"size:255"`
	Phone     string `json:"phone" gorm:"size:32"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// NewUser mints a fresh entity from caller input. 没有 userId 就生成一个；
// 时间戳缺省时统一用 now。userId 一旦生成就不再变化。
func NewUser(in User, now int64) User {
	u := in
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.CreatedAt == 0 {
		u.CreatedAt = now
	}
	if u.UpdatedAt == 0 {
		u.UpdatedAt = now
	}
	return u
}
