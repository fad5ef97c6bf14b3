package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level       string // debug / info / warn / error
	JSON        bool
	AddCaller   bool
	Development bool
	Rotate      FileRotate
}

func New(level string, json bool) (*zap.Logger, func()) {
	return Build(Options{
		Level:       level,
		JSON:        json,
		AddCaller:   true,
		Development: !json, // 控制台更适合开发格式
	})
}

// NewWithRotate writes to stdout and to a size-rotated file.
func NewWithRotate(level string, json bool, filename string) (*zap.Logger, func()) {
	return Build(Options{
		Level:       level,
		JSON:        json,
		AddCaller:   true,
		Development: !json,
		Rotate: FileRotate{
			Enable:     true,
			Filename:   filename,
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
			Compress:   true,
		},
	})
}

func Build(opt Options) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(opt.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if opt.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.TimeKey = "ts"
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	var sinks []zapcore.Core
	sinks = append(sinks, zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl))

	if opt.Rotate.Enable {
		rotator := &lumberjack.Logger{
			Filename:   opt.Rotate.Filename,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		sinks = append(sinks, zapcore.NewCore(enc, zapcore.AddSync(rotWriter{rotator}), lvl))
	}

	core := zapcore.NewTee(sinks...)

	opts := []zap.Option{}
	if opt.AddCaller {
		opts = append(opts, zap.AddCaller())
	}
	if opt.Development {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	cleanup := func() { _ = l.Sync() }
	return l, cleanup
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Write(p []byte) (n int, err error) { return w.Logger.Write(p) }
func (w rotWriter) Sync() error                       { return nil }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
