package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foldcms/fold/internal/auth"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/schema"
	"github.com/foldcms/fold/internal/store"
	"github.com/foldcms/fold/internal/store/sqlite"
)

const serviceContentTypes = `
pages:
  fields:
    title:
      type: text
  relations:
    entries:
      multiple: true
entries:
  fields:
    title:
      type: text
`

func newService(t *testing.T) (*ContentService, store.Store) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "fold.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := sqlite.NewWithDB(db)
	require.NoError(t, err)

	registry, err := schema.Parse([]byte(serviceContentTypes), nil)
	require.NoError(t, err)

	return NewContentService(st, registry), st
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := auth.WithActor(context.Background(), &model.User{UserID: "u1", Username: "editor"})

	created, err := svc.Create(ctx, &model.Content{
		ContentType: "pages",
		Values:      map[string]any{"title": "Hello World"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, created.ID)
	require.Equal(t, "hello-world", created.Slug)
	require.Equal(t, model.StatusDraft, created.Status)
	require.Equal(t, "u1", created.OwnerID)
	require.Equal(t, "editor", created.Username)
	require.NotNil(t, created.DateCreated)
	require.NotNil(t, created.DateChanged)
}

func TestCreateRejectsUnknownTypeAndStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Content{ContentType: "widgets"})
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Create(ctx, &model.Content{ContentType: "pages", Status: "archived"})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestReplaceRelationsValidatesDeclaration(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	page, err := svc.Create(ctx, &model.Content{ContentType: "pages", Values: map[string]any{"title": "A"}})
	require.NoError(t, err)

	err = svc.ReplaceRelations(ctx, "pages", page.ID, []*model.Relation{
		{ToContentType: "widgets", ToID: "w1"},
	})
	require.ErrorIs(t, err, model.ErrValidation)

	err = svc.ReplaceRelations(ctx, "pages", page.ID, []*model.Relation{
		{ToContentType: "entries", ToID: "e1"},
	})
	require.NoError(t, err)

	edges, err := st.Relations().Outgoing(ctx, "pages", page.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, "e1", edges[0].ToID)
}

func TestDeleteLeavesDanglingEdges(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, &model.Content{ContentType: "entries", Values: map[string]any{"title": "E"}})
	require.NoError(t, err)
	page, err := svc.Create(ctx, &model.Content{ContentType: "pages", Values: map[string]any{"title": "P"}})
	require.NoError(t, err)

	require.NoError(t, st.Relations().Add(ctx, &model.Relation{
		FromContentType: "entries", FromID: entry.ID,
		ToContentType: "pages", ToID: page.ID,
	}))

	require.NoError(t, svc.Delete(ctx, "entries", entry.ID))

	// the edge stays; readers resolving it handle the missing source
	incoming, err := svc.Incoming(ctx, "pages", page.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	_, err = svc.GetByID(ctx, "entries", entry.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}
