package shared

import (
	"context"
	"net/http"
	"strconv"
)

type actorContextKey struct{}

// ActorHeader carries the authenticated user id resolved by the gateway.
// Authentication itself happens upstream; this service only records identity.
const ActorHeader = "X-Actor-ID"

// ContextWithActor stores the acting user id in context.
func ContextWithActor(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actorID)
}

// ActorFromContext extracts the acting user id, zero when absent.
func ActorFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(actorContextKey{}).(int64)
	return id
}

// ActorFromRequest reads the actor header from the request.
func ActorFromRequest(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.Header.Get(ActorHeader), 10, 64)
	return id
}
