package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"user-management-api/internal/core/awsx"
	"user-management-api/internal/core/config"
	"user-management-api/internal/core/logger"
	"user-management-api/internal/notify"
	"user-management-api/internal/service"
	"user-management-api/internal/store"
	"user-management-api/internal/telemetry"
	"user-management-api/internal/transport/event"
)

// 依赖在冷启动时构建一次，后续调用复用同一套句柄。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, true)
	defer cleanup()

	region := cfg.AWS.Region
	if env := os.Getenv("AWS_REGION"); env != "" {
		region = env
	}
	sess, err := awsx.NewSession(region, cfg.AWS.Endpoint)
	if err != nil {
		log.Fatal("aws session", zap.Error(err))
	}

	emitter := telemetry.New(log, telemetry.NewCloudWatchSink(awsx.NewCloudWatchLogs(sess), cfg.AWS.LogGroup))

	engine, err := store.Open(cfg, sess)
	if err != nil {
		log.Fatal("store open", zap.Error(err))
	}
	repo := store.NewRepository(engine, emitter, cfg.Store.Table)
	publisher := notify.NewSNSPublisher(awsx.NewSNS(sess), cfg.AWS.TopicARN, log)
	users := service.NewUserService(repo, publisher, emitter, log)
	router := event.NewRouter(users, emitter, log)

	log.Info("lambda handler ready",
		zap.String("table", cfg.Store.Table),
		zap.String("topic", cfg.AWS.TopicARN),
		zap.String("logGroup", cfg.AWS.LogGroup))

	lambda.Start(func(ctx context.Context, ev event.Event) (event.Response, error) {
		return router.Handle(ctx, ev), nil
	})
}
