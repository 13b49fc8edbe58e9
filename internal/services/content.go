// Package services contains the business logic between HTTP transport and
// the store.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/foldcms/fold/internal/auth"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/schema"
	"github.com/foldcms/fold/internal/store"
)

// ContentService owns content record CRUD and the relation graph. It also
// implements edit.ContentSource for the context assembler.
type ContentService struct {
	store    store.Store
	registry *schema.Registry
}

func NewContentService(s store.Store, registry *schema.Registry) *ContentService {
	return &ContentService{store: s, registry: registry}
}

// Create validates the content type, fills identity, slug, status and
// timestamps, and persists the record.
func (s *ContentService) Create(ctx context.Context, c *model.Content) (*model.Content, error) {
	if _, err := s.registry.ContentType(c.ContentType); err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	if !validStatus(c.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", c.Status, model.ErrValidation)
	}
	if c.Slug == "" {
		if title, ok := c.Values["title"].(string); ok {
			c.Slug = slug.Make(title)
		}
	}
	now := time.Now().UTC()
	if c.DateCreated == nil {
		c.DateCreated = &now
	}
	c.DateChanged = &now
	if actor := auth.ActorFrom(ctx); actor != nil {
		if c.OwnerID == "" {
			c.OwnerID = actor.UserID
		}
		if c.Username == "" {
			c.Username = actor.Username
		}
	}

	log.Info().Str("contenttype", c.ContentType).Str("slug", c.Slug).Msg("Creating content")
	return s.store.Contents().Create(ctx, c)
}

// Get fetches one record.
func (s *ContentService) Get(ctx context.Context, contentType, id string) (*model.Content, error) {
	if _, err := s.registry.ContentType(contentType); err != nil {
		return nil, err
	}
	return s.store.Contents().GetByID(ctx, contentType, id)
}

// Delete removes a record. Relation edges pointing at it are left in place;
// the edit assembler tolerates dangling edges.
func (s *ContentService) Delete(ctx context.Context, contentType, id string) error {
	if _, err := s.registry.ContentType(contentType); err != nil {
		return err
	}
	log.Info().Str("contenttype", contentType).Str("id", id).Msg("Deleting content")
	return s.store.Contents().Delete(ctx, contentType, id)
}

// ReplaceRelations swaps the outgoing relation edges of a record.
func (s *ContentService) ReplaceRelations(ctx context.Context, contentType, id string, edges []*model.Relation) error {
	ct, err := s.registry.ContentType(contentType)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		if _, ok := ct.Relations[edge.ToContentType]; !ok {
			return fmt.Errorf("contenttype %q declares no relation to %q: %w",
				contentType, edge.ToContentType, model.ErrValidation)
		}
	}
	return s.store.Relations().Replace(ctx, contentType, id, edges)
}

// --- edit.ContentSource ---

// GetByID fetches a record without a content-type registry check, for
// resolving relation edges whose source type may no longer be configured.
func (s *ContentService) GetByID(ctx context.Context, contentType, id string) (*model.Content, error) {
	return s.store.Contents().GetByID(ctx, contentType, id)
}

// List returns up to limit records of a content type.
func (s *ContentService) List(ctx context.Context, contentType string, limit int) ([]*model.Content, error) {
	return s.store.Contents().List(ctx, contentType, limit)
}

// Incoming returns the inbound relation edges of a record.
func (s *ContentService) Incoming(ctx context.Context, contentType, id string) ([]*model.Relation, error) {
	return s.store.Relations().Incoming(ctx, contentType, id)
}

func validStatus(status string) bool {
	for _, s := range model.AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}
