// Package users resolves editor accounts for ownership display.
package users

import (
	"context"
	"fmt"

	"github.com/foldcms/fold/internal/auth"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/store"
)

// Directory looks up users. The current user comes from the request's
// authenticated actor; stored owners come from the store.
type Directory struct {
	users store.Users
}

func NewDirectory(users store.Users) *Directory {
	return &Directory{users: users}
}

// Current returns the authenticated actor on the context.
func (d *Directory) Current(ctx context.Context) (*model.User, error) {
	if u := auth.ActorFrom(ctx); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("no authenticated user: %w", model.ErrNotFound)
}

// ByID returns the stored account for id.
func (d *Directory) ByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("empty user id: %w", model.ErrNotFound)
	}
	return d.users.Get(ctx, id)
}
