package log

import (
	"context"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger = mustNew(Config{Encoder: "console"})
)

func mustNew(config Config) *Logger {
	logger, err := New(config)
	if err != nil {
		panic(err)
	}

	return logger
}

// SetGlobalConfig rebuilds the process-wide logger from the config.
func SetGlobalConfig(config Config) {
	SetGlobalLogger(mustNew(config))
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalLogger = logger
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	GetGlobalLogger().Error(ctx, msg, fields...)
}

// DebugEnabled reports whether the global logger logs at debug level.
func DebugEnabled() bool {
	return GetGlobalLogger().DebugEnabled()
}
