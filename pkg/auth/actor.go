package auth

import (
	"context"
	"slices"
)

const AuthorityAdmin = "ROLE_ADMIN"

// Actor is the authenticated caller of a request.
type Actor struct {
	ID          *int64
	Login       string
	Authorities []string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && slices.Contains(a.Authorities, AuthorityAdmin)
}

type actorKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the request actor, or nil for anonymous calls.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey{}).(*Actor)
	return actor
}
