// Package api wires the HTTP surface: routing, middleware and handlers.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/foldcms/fold/internal/api/handlers"
	"github.com/foldcms/fold/internal/api/middleware"
	"github.com/foldcms/fold/internal/auth"
)

// Deps carries everything the router needs.
type Deps struct {
	Health       *handlers.HealthHandler
	ContentTypes *handlers.ContentTypesHandler
	Content      *handlers.ContentHandler
	Edit         *handlers.EditHandler
	Keyring      *auth.Keyring
}

// NewRouter builds the HTTP router. Health stays unauthenticated; every
// /api route requires a resolvable API key.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery)

	r.HandleFunc("/v1/health", d.Health.Health).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(d.Keyring.Middleware)

	apiRouter.HandleFunc("/contenttypes", d.ContentTypes.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/contenttypes/{key}", d.ContentTypes.Get).Methods(http.MethodGet)

	apiRouter.HandleFunc("/content/{key}", d.Content.Create).Methods(http.MethodPost)
	apiRouter.HandleFunc("/content/{key}/edit", d.Edit.Edit).Methods(http.MethodGet)
	apiRouter.HandleFunc("/content/{key}/{id}", d.Content.Get).Methods(http.MethodGet)
	apiRouter.HandleFunc("/content/{key}/{id}", d.Content.Delete).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/content/{key}/{id}/relations", d.Content.ReplaceRelations).Methods(http.MethodPut)
	apiRouter.HandleFunc("/content/{key}/{id}/edit", d.Edit.Edit).Methods(http.MethodGet)

	return r
}
