package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return FromContextOr(ctx, Default())
}

// FromContextOr returns the logger carried by ctx, or fallback.
func FromContextOr(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}

// WithRequestID records the request id in ctx and on its logger.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	return with(ctx, func(c zerolog.Context) zerolog.Context { return c.Str("request_id", id) })
}

// RequestID returns the request id recorded in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithConsole tags the context logger with the screen being shown and the
// role of the signed-in user. Empty values are left off.
func WithConsole(ctx context.Context, screen, role string) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context {
		if screen != "" {
			c = c.Str("screen", screen)
		}
		if role != "" {
			c = c.Str("role", role)
		}
		return c
	})
}

// WithGrant tags the context logger with a grant id.
func WithGrant(ctx context.Context, grantID int64) context.Context {
	return with(ctx, func(c zerolog.Context) zerolog.Context { return c.Int64("grant_id", grantID) })
}

func with(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	l := fn(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &l)
}
