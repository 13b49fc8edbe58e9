package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/foldcms/fold/internal/api/respond"
	"github.com/foldcms/fold/internal/edit"
	"github.com/foldcms/fold/internal/flash"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/schema"
	"github.com/foldcms/fold/internal/services"
)

// EditHandler serves the edit-form render context: the record, its field
// tabs and everything else the form template needs, plus any notices
// raised while assembling it.
type EditHandler struct {
	registry  *schema.Registry
	content   *services.ContentService
	assembler *edit.Assembler
}

func NewEditHandler(registry *schema.Registry, content *services.ContentService, assembler *edit.Assembler) *EditHandler {
	return &EditHandler{registry: registry, content: content, assembler: assembler}
}

type editResponse struct {
	Context *edit.Context   `json:"context"`
	Notices []flash.Message `json:"notices"`
}

// Edit handles GET /api/content/{key}/{id}/edit and, without an id,
// GET /api/content/{key}/edit for a brand-new record. ?duplicate=1 serves
// a cleared copy of the stored record instead.
func (h *EditHandler) Edit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]
	id := vars["id"]

	ct, err := h.registry.ContentType(key)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, "unknown contenttype: "+key)
		return
	}
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}

	var rec *model.Content
	if id == "" {
		rec = &model.Content{ContentType: key, Status: model.StatusDraft, Values: map[string]interface{}{}}
	} else {
		rec, err = h.content.GetByID(r.Context(), key, id)
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "no such record")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("contenttype", key).Str("id", id).Msg("loading record for edit failed")
			respond.WriteInternalError(w, "internal server error")
			return
		}
	}

	duplicate := r.URL.Query().Get("duplicate") == "1"

	bag := flash.NewBag()
	editCtx, err := h.assembler.WithNotifier(bag).Assemble(r.Context(), rec, ct, duplicate)
	if err != nil {
		log.Error().Err(err).Str("contenttype", key).Str("id", id).Msg("assembling edit context failed")
		respond.WriteInternalError(w, "internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, editResponse{Context: editCtx, Notices: bag.Messages()})
}
