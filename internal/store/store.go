package store

import (
	"context"

	"github.com/foldcms/fold/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Contents() Contents
	Relations() Relations
	Users() Users
}

// Contents persists content records. Missing rows surface as
// model.ErrNotFound.
type Contents interface {
	Create(ctx context.Context, c *model.Content) (*model.Content, error)
	GetByID(ctx context.Context, contentType, id string) (*model.Content, error)
	Update(ctx context.Context, c *model.Content) (*model.Content, error)
	List(ctx context.Context, contentType string, limit int) ([]*model.Content, error)
	Delete(ctx context.Context, contentType, id string) error
}

// Relations persists the relation graph between records.
type Relations interface {
	Add(ctx context.Context, r *model.Relation) error
	// Replace swaps all outgoing edges of one record in a single
	// transaction.
	Replace(ctx context.Context, contentType, id string, edges []*model.Relation) error
	Incoming(ctx context.Context, contentType, id string) ([]*model.Relation, error)
	Outgoing(ctx context.Context, contentType, id string) ([]*model.Relation, error)
}

// Users persists editor accounts.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// HealthPinger is implemented by stores that can verify connectivity.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
