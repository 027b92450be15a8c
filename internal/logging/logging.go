package logging

import (
	"context"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *otelzap.Logger
)

// Init initializes the global logger. Call this early in main. Logs go to
// stderr so generated messages on stdout stay clean.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return err
	}
	Set(otelzap.New(z))
	return nil
}

// Set replaces the global logger.
func Set(l *otelzap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
	if l != nil {
		otelzap.ReplaceGlobals(l)
	}
}

// fallbackLogger returns a no-op logger if Init() was not called.
func fallbackLogger() *otelzap.Logger {
	return otelzap.New(zap.NewNop())
}

// L returns the global otelzap.Logger (for advanced use).
func L() *otelzap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		return logger
	}
	return fallbackLogger()
}

// C returns a context-aware logger (recommended for most use).
func C(ctx context.Context) otelzap.LoggerWithCtx {
	return L().Ctx(ctx)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
