package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Users
	owner, err := s.Users().Create(ctx, &model.User{
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "alice@example.test",
		Roles:       []string{"editor"},
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if owner.UserID == "" {
		t.Fatalf("CreateUser: empty user id")
	}
	if got, err := s.Users().Get(ctx, owner.UserID); err != nil || got.Username != "alice" || len(got.Roles) != 1 {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Get(ctx, "u-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}
	if lst, err := s.Users().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListUsers: n=%d err=%v", len(lst), err)
	}

	// Contents
	published := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	page, err := s.Contents().Create(ctx, &model.Content{
		ContentType: "pages",
		Slug:        "welcome",
		Status:      model.StatusPublished,
		OwnerID:     owner.UserID,
		Username:    "alice",
		DateCreated: &published,
		DatePublish: &published,
		Values:      map[string]any{"title": "Welcome"},
		TemplateFields: &model.TemplateFields{
			Template:   "wide.html",
			Fields:     map[string]*model.FieldDef{"hero": {Type: "image", Group: "media"}},
			FieldOrder: []string{"hero"},
			Values:     map[string]any{"hero": "hero.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if page.ID == "" {
		t.Fatalf("CreateContent: empty id")
	}

	got, err := s.Contents().GetByID(ctx, "pages", page.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.Slug != "welcome" || got.Status != model.StatusPublished {
		t.Fatalf("GetContent: unexpected record %+v", got)
	}
	if got.DatePublish == nil || !got.DatePublish.Equal(published) {
		t.Fatalf("GetContent: publish date not round-tripped: %v", got.DatePublish)
	}
	if got.TemplateFields == nil || got.TemplateFields.Template != "wide.html" || got.TemplateFields.Fields["hero"].Type != "image" {
		t.Fatalf("GetContent: template fields not round-tripped: %+v", got.TemplateFields)
	}
	if got.Values["title"] != "Welcome" {
		t.Fatalf("GetContent: values not round-tripped: %+v", got.Values)
	}

	if _, err := s.Contents().GetByID(ctx, "pages", uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetContent missing: want ErrNotFound, got %v", err)
	}

	got.Status = model.StatusHeld
	if _, err := s.Contents().Update(ctx, got); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if again, err := s.Contents().GetByID(ctx, "pages", page.ID); err != nil || again.Status != model.StatusHeld {
		t.Fatalf("UpdateContent: status not persisted, got=%v err=%v", again, err)
	}

	entry, err := s.Contents().Create(ctx, &model.Content{
		ContentType: "entries",
		Slug:        "first-entry",
		Status:      model.StatusDraft,
		Values:      map[string]any{"title": "First"},
	})
	if err != nil {
		t.Fatalf("CreateContent entry: %v", err)
	}

	if lst, err := s.Contents().List(ctx, "pages", 10); err != nil || len(lst) != 1 {
		t.Fatalf("ListContents pages: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Contents().List(ctx, "entries", 10); err != nil || len(lst) != 1 {
		t.Fatalf("ListContents entries: n=%d err=%v", len(lst), err)
	}

	// Relations
	if err := s.Relations().Add(ctx, &model.Relation{
		FromContentType: "entries", FromID: entry.ID,
		ToContentType: "pages", ToID: page.ID,
	}); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	if err := s.Relations().Add(ctx, &model.Relation{
		FromContentType: "entries", FromID: entry.ID,
		ToContentType: "pages", ToID: page.ID, Inverted: true,
	}); err != nil {
		t.Fatalf("AddRelation inverted: %v", err)
	}

	inc, err := s.Relations().Incoming(ctx, "pages", page.ID)
	if err != nil || len(inc) != 2 {
		t.Fatalf("Incoming: n=%d err=%v", len(inc), err)
	}
	out, err := s.Relations().Outgoing(ctx, "entries", entry.ID)
	if err != nil || len(out) != 2 {
		t.Fatalf("Outgoing: n=%d err=%v", len(out), err)
	}

	if err := s.Relations().Replace(ctx, "entries", entry.ID, []*model.Relation{
		{ToContentType: "pages", ToID: page.ID},
	}); err != nil {
		t.Fatalf("ReplaceRelations: %v", err)
	}
	if out, err := s.Relations().Outgoing(ctx, "entries", entry.ID); err != nil || len(out) != 1 || out[0].Inverted {
		t.Fatalf("ReplaceRelations: outgoing=%v err=%v", out, err)
	}

	// Delete
	if err := s.Contents().Delete(ctx, "entries", entry.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if err := s.Contents().Delete(ctx, "entries", entry.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteContent twice: want ErrNotFound, got %v", err)
	}
}
