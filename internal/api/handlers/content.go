package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/foldcms/fold/internal/api/respond"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/services"
)

// ContentHandler serves content record CRUD and relation replacement.
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// Create handles POST /api/content/{key}
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var rec model.Content
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	rec.ContentType = key

	created, err := h.content.Create(r.Context(), &rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/content/{key}/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rec, err := h.content.Get(r.Context(), vars["key"], vars["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/content/{key}/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.content.Delete(r.Context(), vars["key"], vars["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceRelations handles PUT /api/content/{key}/{id}/relations
func (h *ContentHandler) ReplaceRelations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var body struct {
		Relations []*model.Relation `json:"relations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}

	if err := h.content.ReplaceRelations(r.Context(), vars["key"], vars["id"], body.Relations); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	default:
		log.Error().Err(err).Msg("content request failed")
		respond.WriteInternalError(w, "internal server error")
	}
}
