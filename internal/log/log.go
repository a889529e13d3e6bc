package log

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the global logger.
type Config struct {
	Name    string `conf:"name" yaml:"name" json:"name"`
	Level   string `conf:"level" yaml:"level" json:"level"`
	Format  string `conf:"format" yaml:"format" json:"format"`
	Encoder string `conf:"encoder" yaml:"encoder" json:"encoder"`
	Debug   bool   `conf:"debug" yaml:"debug" json:"debug"`
}

// Logger wraps a zap.Logger with context-aware hooks.
// Hooks may derive extra fields from the context, e.g. trace ids.
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel

	mu    sync.RWMutex
	hooks []Hook
}

// Hook derives extra log fields from the context of a log call.
type Hook interface {
	Apply(ctx context.Context, msg string, fields ...Field) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string, fields ...Field) []Field

func (f HookFunc) Apply(ctx context.Context, msg string, fields ...Field) []Field {
	return f(ctx, msg, fields...)
}

// New creates a Logger from the config.
func New(config Config) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if config.Level != "" {
		parsed, err := zapcore.ParseLevel(config.Level)
		if err != nil {
			return nil, fmt.Errorf("log: invalid level %q: %w", config.Level, err)
		}

		level.SetLevel(parsed)
	}

	if config.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder

	switch config.Encoder {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)

	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	if config.Name != "" {
		zl = zl.Named(config.Name)
	}

	return &Logger{zl: zl, level: level}, nil
}

// AddHook registers a context hook on the logger.
func (l *Logger) AddHook(hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hooks = append(l.hooks, hook)
}

func (l *Logger) applyHooks(ctx context.Context, msg string, fields []Field) []Field {
	l.mu.RLock()
	hooks := l.hooks
	l.mu.RUnlock()

	for _, hook := range hooks {
		fields = hook.Apply(ctx, msg, fields...)
	}

	return fields
}

func (l *Logger) log(ctx context.Context, level zapcore.Level, msg string, fields ...Field) {
	if !l.level.Enabled(level) {
		return
	}

	fields = l.applyHooks(ctx, msg, fields)

	switch level {
	case zapcore.DebugLevel:
		l.zl.Debug(msg, fields...)
	case zapcore.InfoLevel:
		l.zl.Info(msg, fields...)
	case zapcore.WarnLevel:
		l.zl.Warn(msg, fields...)
	case zapcore.ErrorLevel:
		l.zl.Error(msg, fields...)
	case zapcore.FatalLevel:
		l.zl.Fatal(msg, fields...)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields...)
}

// DebugEnabled reports whether debug level logging is enabled.
func (l *Logger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
