package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from the context, or a no-op logger if
// none was stored.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return &ZapLogger{zap: zap.NewNop()}
}

// Nop returns a logger that discards everything. Used by tests and as the
// fallback when construction is optional.
func Nop() Logger {
	return &ZapLogger{zap: zap.NewNop()}
}
