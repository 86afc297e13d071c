package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Loggerはusecase層から見たログの約束。
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
	Sync() error
}

type ctxKey string

// contextに積むとログに出るフィールド
const (
	CtxOrderIDKey ctxKey = "order_id"
	CtxSweepKey   ctxKey = "sweep"
)

type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(level string) (Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: l}, nil
}

func (l *ZapLogger) extractFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0)

	if orderID, ok := ctx.Value(CtxOrderIDKey).(int64); ok {
		fields = append(fields, zap.Int64("order_id", orderID))
	}
	if sweep, ok := ctx.Value(CtxSweepKey).(string); ok && sweep != "" {
		fields = append(fields, zap.String("sweep", sweep))
	}

	return fields
}

func (l *ZapLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Warnf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), l.extractFields(ctx)...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// Nopはテスト用。
type Nop struct{}

func (Nop) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (Nop) Infof(ctx context.Context, format string, args ...interface{})  {}
func (Nop) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (Nop) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (Nop) Sync() error                                                    { return nil }
