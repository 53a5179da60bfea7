// Package obslog is the structured-logging seam every long-running
// component (builder, solver, pipeline, cmd/strix) logs through,
// wrapping go.uber.org/zap the way luxfi-consensus's log package wraps
// its own logger behind a small interface so call sites never import
// zap directly.
package obslog

import "go.uber.org/zap"

// Logger is the structured-logging surface this module depends on.
// With returns a child logger carrying extra fields on every call,
// mirroring log.Logger.With/WithFields.
type Logger interface {
	With(fields ...zap.Field) Logger
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
	Sync() error
}

// zapLogger is the production Logger, a thin wrapper over *zap.Logger.
type zapLogger struct {
	z *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewProduction builds a JSON-encoded, info-level-and-above logger,
// the default cmd/strix constructs when --verbose is not given.
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

// NewDevelopment builds a human-readable, debug-level logger, what
// cmd/strix constructs under --verbose.
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

func (l *zapLogger) With(fields ...zap.Field) Logger { return &zapLogger{z: l.z.With(fields...)} }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }
func (l *zapLogger) Sync() error                           { return l.z.Sync() }

// nopLogger discards everything, grounded on log/noop.go's
// NewNoOpLogger, used by tests and by any caller that does not want
// obslog wired up.
type nopLogger struct{}

// NewNop returns a Logger that never logs.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) With(fields ...zap.Field) Logger          { return nopLogger{} }
func (nopLogger) Info(msg string, fields ...zap.Field)     {}
func (nopLogger) Warn(msg string, fields ...zap.Field)     {}
func (nopLogger) Error(msg string, fields ...zap.Field)    {}
func (nopLogger) Fatal(msg string, fields ...zap.Field)    {}
func (nopLogger) Sync() error                              { return nil }
