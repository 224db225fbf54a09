package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ctxKey struct{}

// loggerCtxKey keys the request-scoped logger in a context.Context.
var loggerCtxKey ctxKey

// FromContext returns the request-scoped logger carried by ctx, falling
// back to the global logger when none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// WithContext attaches l to ctx for retrieval with FromContext.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, l)
}

// FromEcho returns the per-request logger installed by Middleware, falling
// back to the global logger when the middleware did not run.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}
