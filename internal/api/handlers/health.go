package handlers

import (
	"net/http"

	"github.com/foldcms/fold/internal/api/respond"
	"github.com/foldcms/fold/internal/store"
)

// HealthHandler reports service liveness and storage reachability.
type HealthHandler struct {
	pinger store.HealthPinger
}

func NewHealthHandler(pinger store.HealthPinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.HealthPing(r.Context()); err != nil {
			respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
