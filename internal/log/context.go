package log

import "context"

type contextKey struct{}

// NewContext returns a context carrying l. The HTTP layer stores a
// request-scoped logger here so deeper code logs with the request id
// already attached.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or a logger over the
// process default when none was stored.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return Default()
}
