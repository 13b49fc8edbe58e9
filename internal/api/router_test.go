package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foldcms/fold/internal/api/handlers"
	"github.com/foldcms/fold/internal/auth"
	"github.com/foldcms/fold/internal/edit"
	"github.com/foldcms/fold/internal/i18n"
	"github.com/foldcms/fold/internal/schema"
	"github.com/foldcms/fold/internal/services"
	"github.com/foldcms/fold/internal/store"
	"github.com/foldcms/fold/internal/store/sqlite"
	"github.com/foldcms/fold/internal/users"
)

const testContentTypes = `
pages:
  name: Pages
  groups: [content, meta]
  fields:
    title:
      type: text
      group: content
    body:
      type: html
      group: content
    teaser:
      type: textarea
      group: meta
  relations:
    entries:
      multiple: true
entries:
  name: Entries
  fields:
    title:
      type: text
`

func newTestServer(t *testing.T) (http.Handler, store.Store) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "fold.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := sqlite.NewWithDB(db)
	require.NoError(t, err)

	registry, err := schema.Parse([]byte(testContentTypes), nil)
	require.NoError(t, err)

	content := services.NewContentService(st, registry)
	assembler := edit.NewAssembler(edit.Deps{
		Auth:              auth.NewRoleAuthorizer(),
		Users:             users.NewDirectory(st.Users()),
		Translator:        i18n.New("en", nil),
		Source:            content,
		FieldTypes:        registry.FieldTypes(),
		Taxonomies:        registry.Taxonomies(),
		SkipSelfRelations: true,
	})

	router := NewRouter(Deps{
		Health:       handlers.NewHealthHandler(st.(store.HealthPinger)),
		ContentTypes: handlers.NewContentTypesHandler(registry),
		Content:      handlers.NewContentHandler(content),
		Edit:         handlers.NewEditHandler(registry, content, assembler),
		Keyring:      auth.NewDevKeyring(),
	})
	return router, st
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("X-API-Key", auth.LocalDevAPIKey)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthUnauthenticated(t *testing.T) {
	h, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAPIRequiresKey(t *testing.T) {
	h, _ := newTestServer(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/contenttypes", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestContentTypeRoutes(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/contenttypes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"pages"`)

	rr = doJSON(t, h, http.MethodGet, "/api/contenttypes/pages", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/contenttypes/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestContentLifecycle(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/content/pages",
		`{"values":{"title":"Hello World"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		ID     string `json:"id"`
		Slug   string `json:"slug"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "hello-world", created.Slug)
	require.Equal(t, "draft", created.Status)

	rr = doJSON(t, h, http.MethodGet, "/api/content/pages/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodDelete, "/api/content/pages/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/content/pages/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReplaceRelationsValidation(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/content/pages", `{"values":{"title":"A"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var page struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))

	// pages declares no relation to itself.
	rr = doJSON(t, h, http.MethodPut, "/api/content/pages/"+page.ID+"/relations",
		`{"relations":[{"toContenttype":"pages","toId":"whatever"}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, h, http.MethodPut, "/api/content/pages/"+page.ID+"/relations",
		`{"relations":[{"toContenttype":"entries","toId":"e1"}]}`)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestEditContextForStoredRecord(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/content/pages", `{"values":{"title":"Edit Me"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var page struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))

	rr = doJSON(t, h, http.MethodGet, "/api/content/pages/"+page.ID+"/edit", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Context map[string]json.RawMessage `json:"context"`
		Notices []any                      `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	for _, key := range []string{
		"incoming_not_inv", "contenttype", "content", "allowed_status",
		"contentowner", "fields", "fieldtemplates", "fieldtypes", "groups",
		"can", "has", "values", "relations_list",
	} {
		require.Contains(t, resp.Context, key, "context key %q", key)
	}
	require.Empty(t, resp.Notices)

	var groups map[string]struct {
		Label  string   `json:"label"`
		ID     string   `json:"id"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(resp.Context["groups"], &groups))
	require.Contains(t, groups, "content")
	require.Contains(t, groups, "meta")
	require.Equal(t, "tab-content", groups["content"].ID)
}

func TestEditContextDuplicateEmitsNotice(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/content/pages", `{"values":{"title":"Source"}}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var page struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))

	rr = doJSON(t, h, http.MethodGet, "/api/content/pages/"+page.ID+"/edit?duplicate=1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Context struct {
			Content struct {
				ID   string `json:"id"`
				Slug string `json:"slug"`
			} `json:"content"`
		} `json:"context"`
		Notices []struct {
			Level string `json:"level"`
			Text  string `json:"text"`
		} `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Empty(t, resp.Context.Content.ID)
	require.Empty(t, resp.Context.Content.Slug)
	require.Len(t, resp.Notices, 1)
	require.Contains(t, resp.Notices[0].Text, "pages")
}

func TestEditContextForNewRecord(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/content/pages/edit", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Context struct {
			AllowedStatus []string `json:"allowed_status"`
			Has           struct {
				Tabs bool `json:"tabs"`
			} `json:"has"`
		} `json:"context"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Context.Has.Tabs)
	require.NotEmpty(t, resp.Context.AllowedStatus)
}
