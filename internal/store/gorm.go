package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-management-api/internal/core/config"
	"user-management-api/internal/domain"
)

// GormEngine backs the key-value contract with a users table; a primary-keyed
// row gives the same per-key consistency the adapter assumes.
type GormEngine struct {
	db *gorm.DB
}

func NewGormEngine(cfg *config.Config) (*GormEngine, error) {
	var dial gorm.Dialector
	switch cfg.Store.Driver {
	case "postgres":
		dial = postgres.Open(cfg.DB.DSN)
	case "mysql":
		dial = mysql.Open(cfg.DB.DSN)
	default:
		return nil, gorm.ErrInvalidDB
	}

	lvl := gormlogger.Warn
	switch cfg.DB.LogLevel {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: gormlogger.Default.LogMode(lvl)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetimeMin) * time.Minute)

	db = db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // 单键覆盖写，无需默认事务
	})

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}); err != nil {
			return nil, err
		}
	}
	return &GormEngine{db: db}, nil
}

// Put is an overwrite: Save upserts on the primary key.
func (e *GormEngine) Put(ctx context.Context, u *domain.User) error {
	return e.db.WithContext(ctx).Save(u).Error
}

func (e *GormEngine) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := e.db.WithContext(ctx).First(&u, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (e *GormEngine) Update(ctx context.Context, u *domain.User) error {
	return e.db.WithContext(ctx).Save(u).Error
}

// Delete is idempotent: deleting a missing row is not an error.
func (e *GormEngine) Delete(ctx context.Context, userID string) error {
	return e.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.User{}).Error
}
