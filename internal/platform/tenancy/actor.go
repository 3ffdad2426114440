package tenancy

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation. Platform-level
// users have a nil ClinicID and may only call tenant-agnostic routes.
type Actor struct {
	UserID   string
	Email    string
	Role     string
	ClinicID *uuid.UUID
}

type contextKey string

const (
	actorKey contextKey = "tenancy_actor"
	scopeKey contextKey = "tenancy_scope"
)

// WithActor returns a context carrying the authenticated actor. The auth
// middleware calls this once per request; nothing else writes the actor.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor, or nil when the request
// is unauthenticated.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey).(*Actor)
	return actor
}

// WithScope returns a context carrying the resolved clinic scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns the clinic scope resolved by the tenancy
// middleware. ok is false on tenant-agnostic routes.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(Scope)
	return scope, ok
}
