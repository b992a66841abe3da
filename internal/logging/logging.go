// Package logging builds the process zap logger and adapts it to the
// key/value Logger used throughout the service layer.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Development selects the console encoder and
// stack traces on warnings.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Adapter exposes a zap.Logger through Debug/Info/Warn/Error(msg, kv...).
type Adapter struct {
	logger *zap.Logger
}

// NewAdapter wraps logger. A nil logger becomes zap.NewNop().
func NewAdapter(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{logger: logger}
}

// Zap returns the wrapped logger.
func (a *Adapter) Zap() *zap.Logger { return a.logger }

func (a *Adapter) Debug(msg string, kv ...any) { a.logger.Debug(msg, fieldsToZap(kv)...) }
func (a *Adapter) Info(msg string, kv ...any)  { a.logger.Info(msg, fieldsToZap(kv)...) }
func (a *Adapter) Warn(msg string, kv ...any)  { a.logger.Warn(msg, fieldsToZap(kv)...) }
func (a *Adapter) Error(msg string, kv ...any) { a.logger.Error(msg, fieldsToZap(kv)...) }

// fieldsToZap pairs alternating keys and values. A trailing key without a
// value is dropped; a non-string key is rendered with %v.
func fieldsToZap(kv []any) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, isErr := kv[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, kv[i+1]))
	}
	return fields
}
