package helpers

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID between the gateway and upstream services
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID stores a request ID on the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID on ctx, generating a new one when absent
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
