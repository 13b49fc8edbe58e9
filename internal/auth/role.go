package auth

import (
	"context"
	"strings"

	"github.com/foldcms/fold/internal/model"
)

// RoleAuthorizer grants permissions from a static role table. Permission
// strings are colon-separated paths ("contenttype:pages:publish:42");
// grant patterns may use "*" per segment and match as prefixes, so
// "contenttype:*:publish" covers every publish permission.
type RoleAuthorizer struct {
	grants map[string][]string
}

// NewRoleAuthorizer returns an authorizer with the default role table:
// admins can do everything, editors can publish and depublish, authors can
// only upload and shuffle drafts.
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{grants: map[string][]string{
		"admin":  {"*"},
		"editor": {"files:uploads", "contenttype:*:publish", "contenttype:*:depublish"},
		"author": {"files:uploads"},
	}}
}

// NewRoleAuthorizerWithGrants returns an authorizer over a caller-supplied
// role table.
func NewRoleAuthorizerWithGrants(grants map[string][]string) *RoleAuthorizer {
	return &RoleAuthorizer{grants: grants}
}

// IsAllowed reports whether any of the actor's roles grants permission.
func (a *RoleAuthorizer) IsAllowed(ctx context.Context, permission string) bool {
	actor := ActorFrom(ctx)
	if actor == nil {
		return false
	}
	for _, role := range actor.Roles {
		for _, grant := range a.grants[role] {
			if matchPermission(grant, permission) {
				return true
			}
		}
	}
	return false
}

// IsStatusTransitionAllowed implements the publication workflow: staying on
// the current status is always allowed, publishing (or timing) requires the
// publish permission, taking a published record off requires depublish, and
// shuffling between draft and held is free.
func (a *RoleAuthorizer) IsStatusTransitionAllowed(ctx context.Context, from, to, contentType, id string) bool {
	if ActorFrom(ctx) == nil {
		return false
	}
	switch {
	case from == to:
		return true
	case to == model.StatusPublished || to == model.StatusTimed:
		return a.IsAllowed(ctx, "contenttype:"+contentType+":publish:"+id)
	case from == model.StatusPublished || from == model.StatusTimed:
		return a.IsAllowed(ctx, "contenttype:"+contentType+":depublish:"+id)
	default:
		return true
	}
}

// matchPermission matches a grant pattern against a permission. Patterns
// compare segment-wise, "*" matches any one segment, and a pattern shorter
// than the permission matches as a prefix.
func matchPermission(pattern, permission string) bool {
	if pattern == "*" {
		return true
	}
	want := strings.Split(pattern, ":")
	have := strings.Split(permission, ":")
	if len(want) > len(have) {
		return false
	}
	for i, seg := range want {
		if seg != "*" && seg != have[i] {
			return false
		}
	}
	return true
}
