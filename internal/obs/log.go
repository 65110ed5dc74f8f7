package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.Mutex
	logger   *zap.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger()
	}
	return logger
}

// SetLogger replaces the shared logger. Intended for tests that need to
// capture output.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l != nil {
		logger = l
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		// Production config only fails on invalid options; fall back to a
		// no-op logger rather than crash at import time.
		return zap.NewNop()
	}
	return l
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		_ = logger.Sync()
	}
}
