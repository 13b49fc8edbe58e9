// Package auth answers permission and status-transition questions for the
// acting editor.
package auth

import (
	"context"

	"github.com/foldcms/fold/internal/model"
)

// Authorizer checks permissions for the actor carried in the request
// context. Checks are all-or-nothing booleans: an unauthorized action is
// omitted from the form, never an error.
type Authorizer interface {
	IsAllowed(ctx context.Context, permission string) bool
	IsStatusTransitionAllowed(ctx context.Context, from, to, contentType, id string) bool
}

type actorKey struct{}

// WithActor stores the authenticated user on the context.
func WithActor(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

// ActorFrom returns the authenticated user, or nil when the request is
// anonymous.
func ActorFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(actorKey{}).(*model.User)
	return u
}
