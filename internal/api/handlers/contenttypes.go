package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/foldcms/fold/internal/api/respond"
	"github.com/foldcms/fold/internal/model"
	"github.com/foldcms/fold/internal/schema"
)

// ContentTypesHandler serves the configured content-type schemas.
type ContentTypesHandler struct {
	registry *schema.Registry
}

func NewContentTypesHandler(registry *schema.Registry) *ContentTypesHandler {
	return &ContentTypesHandler{registry: registry}
}

// List returns every configured content type in declaration order.
func (h *ContentTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"contenttypes": h.registry.ContentTypes(),
		"fieldtypes":   h.registry.FieldTypes(),
	})
}

// Get returns one content type by key.
func (h *ContentTypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	ct, err := h.registry.ContentType(key)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, "unknown contenttype: "+key)
		return
	}
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, ct)
}
