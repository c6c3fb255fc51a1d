// Package logging builds the structured loggers used by the SDK and its CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option configures the logger built by New.
type Option func(*zap.Config)

// WithLevel sets the minimum enabled log level. The default is Info; the
// transport's per-request logging only becomes visible at Debug.
func WithLevel(level zapcore.Level) Option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
}

// New creates a production-ready structured logger configured for JSON output.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	for _, opt := range opts {
		opt(&cfg)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
