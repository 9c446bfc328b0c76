package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go
type Options struct {
	// File enables a rotated JSON log file next to stdout when set
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds the production logger. Without a file it is zap.NewProduction.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewProduction()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(newRotator(opts)), zap.InfoLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.InfoLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}

func newRotator(opts Options) *lumberjack.Logger {
	r := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true, // gzip
	}
	if r.MaxSize <= 0 {
		r.MaxSize = 10
	}
	if r.MaxBackups <= 0 {
		r.MaxBackups = 5
	}
	if r.MaxAge <= 0 {
		r.MaxAge = 30
	}
	return r
}
