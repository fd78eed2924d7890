package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelCritical sits above error; zap has no native critical level so it is
// emitted at error level with a severity field.
const LevelCritical = zapcore.Level(zapcore.ErrorLevel + 1)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
	Sync() error
}

type zapLogger struct {
	base     *zap.SugaredLogger
	critical bool
}

func NewFromEnv() Logger {
	env := normalizeValue(os.Getenv("ENV"))
	level := parseLevel(os.Getenv("LOG_LEVEL"), env)
	format := parseFormat(os.Getenv("LOG_FORMAT"))
	return New(os.Stdout, level, format)
}

func New(output io.Writer, level zapcore.Level, format string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch normalizeValue(format) {
	case "text":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	// Critical is emitted at error level, so the core threshold is capped there.
	threshold := level
	if threshold > zapcore.ErrorLevel {
		threshold = zapcore.ErrorLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zap.NewAtomicLevelAt(threshold))
	return &zapLogger{
		base:     zap.New(core).Sugar(),
		critical: level > zapcore.ErrorLevel,
	}
}

func NewNop() Logger {
	return &zapLogger{base: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(message string, args ...any) {
	if l.critical {
		return
	}
	l.base.Debugw(message, args...)
}

func (l *zapLogger) Info(message string, args ...any) {
	if l.critical {
		return
	}
	l.base.Infow(message, args...)
}

func (l *zapLogger) Warn(message string, args ...any) {
	if l.critical {
		return
	}
	l.base.Warnw(message, args...)
}

func (l *zapLogger) Error(message string, args ...any) {
	if l.critical {
		return
	}
	l.base.Errorw(message, args...)
}

func (l *zapLogger) Critical(message string, args ...any) {
	attrs := append([]any{"severity", "CRITICAL"}, args...)
	l.base.Errorw(message, attrs...)
}

func (l *zapLogger) BusinessError(message string, err error, args ...any) {
	if err == nil {
		return
	}

	attrs := append([]any{"err", err.Error()}, args...)
	l.Warn(message, attrs...)
}

func (l *zapLogger) InternalError(message string, err error, args ...any) {
	if err == nil {
		return
	}

	attrs := append([]any{"err", err.Error()}, args...)
	l.Error(message, attrs...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{base: l.base.With(args...), critical: l.critical}
}

func (l *zapLogger) Sync() error {
	return l.base.Sync()
}

func parseLevel(value string, env string) zapcore.Level {
	switch normalizeValue(value) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "":
		if env == "development" {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "critical", "fatal":
		return LevelCritical
	default:
		if env == "development" {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	}
}

func parseFormat(value string) string {
	switch normalizeValue(value) {
	case "json", "text":
		return normalizeValue(value)
	default:
		return "json"
	}
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
