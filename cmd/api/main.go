package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"user-management-api/internal/core/awsx"
	"user-management-api/internal/core/config"
	"user-management-api/internal/core/logger"
	"user-management-api/internal/core/server"
	"user-management-api/internal/notify"
	"user-management-api/internal/service"
	"user-management-api/internal/store"
	"user-management-api/internal/telemetry"
	"user-management-api/internal/transport/event"
	transporthttp "user-management-api/internal/transport/http"
)

// 本地 / 容器运行模式：真实 HTTP 进来，内部走和 Lambda 完全一样的事件路由。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// AWS 句柄只在需要时构建：没配 region 就全用本地替身。
	var sess *session.Session
	var sink telemetry.Sink = telemetry.NopSink{}
	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.Store.Driver == "dynamodb" || cfg.AWS.Endpoint != "" {
		s, err := awsx.NewSession(cfg.AWS.Region, cfg.AWS.Endpoint)
		if err != nil {
			log.Fatal("aws session", zap.Error(err))
		}
		sess = s
		sink = telemetry.NewCloudWatchSink(awsx.NewCloudWatchLogs(sess), cfg.AWS.LogGroup)
		publisher = notify.NewSNSPublisher(awsx.NewSNS(sess), cfg.AWS.TopicARN, log)
	}

	emitter := telemetry.New(log, sink)

	engine, err := store.Open(cfg, sess)
	if err != nil {
		log.Fatal("store open", zap.Error(err))
	}
	log.Info("store ready", zap.String("driver", cfg.Store.Driver))

	repo := store.NewRepository(engine, emitter, cfg.Store.Table)
	users := service.NewUserService(repo, publisher, emitter, log)
	router := event.NewRouter(users, emitter, log)

	r := transporthttp.NewEngine(log, router)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()
	log.Info("user api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}
