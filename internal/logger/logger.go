// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Dev   bool
	Debug bool
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Setup installs the global logger. Dev selects the console encoder; Debug
// lowers the level to debug. The returned function flushes buffered entries.
func Setup(cfg Config) (func() error, error) {
	var zc zap.Config
	if cfg.Dev {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	global = l
	mu.Unlock()

	l.Debug("logger.initialized", zap.Bool("dev", cfg.Dev))

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		err := global.Sync()
		global = zap.NewNop()
		return err
	}, nil
}

// L returns the global logger. It discards everything until Setup is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
