// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services and handlers read them. Keeping the
// package free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	requester := requestcontext.Requester(ctx)
//	requestID := requestcontext.RequestID(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithRequester(ctx, "taki")
package requestcontext

import "context"

// Context key types (unexported for encapsulation).
type (
	requesterKey struct{}
	requestIDKey struct{}
)

// Requester retrieves the authenticated account vanity from the context.
// Returns "" for anonymous requests.
func Requester(ctx context.Context) string {
	if v, ok := ctx.Value(requesterKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequester injects an authenticated account vanity into the context.
func WithRequester(ctx context.Context, vanity string) context.Context {
	return context.WithValue(ctx, requesterKey{}, vanity)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
