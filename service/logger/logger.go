package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey string

const loggerContextKey contextKey = "logger.entry"

var defaultLogger = logrus.New()

// InitWithDefaults configures the package-level logger for a hosted
// environment (JSON output, info level)
func InitWithDefaults() {
	SetLoggerOptions(func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	})
}

// SetLoggerOptions applies options to the package-level logger
func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// NewContext returns a new context carrying the given entry
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerContextKey, entry)
}

// ContextWithFields adds the given fields to the entry carried by ctx
func ContextWithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return NewContext(ctx, For(ctx).WithFields(fields))
}

// For returns the log entry scoped to the given context. A nil context is
// valid and returns an entry on the package-level logger.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return logrus.NewEntry(defaultLogger)
	}
	if entry, ok := ctx.Value(loggerContextKey).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}
	return logrus.NewEntry(defaultLogger).WithContext(ctx)
}
