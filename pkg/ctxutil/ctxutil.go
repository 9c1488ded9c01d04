package ctxutil

import (
	"context"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, actorKey, u)
}

// ActorFromCtx extracts the authenticated actor from the context.
// Returns false for anonymous requests.
func ActorFromCtx(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(actorKey).(domain.User)
	return u, ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
