// Package logger holds the process-wide zap logger shared by the api, worker
// and shortlist binaries.
package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Init builds the global logger from LOG_LEVEL and ENV. The development
// environment gets colored console output with caller info; every other
// environment logs JSON without sampling, so each screened document leaves a
// line. Only the first call has an effect.
func Init(level, env string) error {
	var err error
	once.Do(func() {
		var zapLevel zapcore.Level
		if err = zapLevel.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
			err = fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
			return
		}

		var config zap.Config
		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			config = zap.NewProductionConfig()
			config.Sampling = nil
			config.InitialFields = map[string]interface{}{"env": env}
		}
		config.Level = zap.NewAtomicLevelAt(zapLevel)
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		globalLogger, err = config.Build()
	})
	return err
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// For returns the global logger named after one binary, e.g. "api" or "worker".
func For(component string) *zap.Logger {
	return Get().Named(component)
}

func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
