package sentryutil

import (
	"context"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/sealvault/go-sealvault/env"
	"github.com/sealvault/go-sealvault/service/logger"
)

func init() {
	env.SetDefault("SENTRY_DSN", "")
	env.SetDefault("ENV", "local")
}

// InitSentry sets up the sentry client. A missing DSN disables reporting,
// which is the expected local configuration.
func InitSentry() {
	dsn := env.GetString("SENTRY_DSN")
	if dsn == "" {
		logger.For(nil).Info("sentry DSN not set, skipping sentry init")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env.GetString("ENV"),
		AttachStacktrace: true,
	})
	if err != nil {
		logger.For(nil).Errorf("failed to init sentry: %s", err)
	}
}

// ReportError reports the given error to sentry
func ReportError(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// RecoverAndRaise reports a panic to sentry and then re-raises it
func RecoverAndRaise(ctx context.Context) {
	if r := recover(); r != nil {
		hub := sentry.CurrentHub()
		if ctx != nil {
			if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
				hub = ctxHub
			}
		}
		if hub != nil {
			hub.Recover(r)
			hub.Flush(2 * time.Second)
		}
		panic(r)
	}
}
