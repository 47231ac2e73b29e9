package sheets

import (
	"encoding/json"
	"net/http"

	"github.com/budsjett/budsjett/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Sync serves POST /api/sheets/sync.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if !h.service.Enabled() {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Sheets mirror is not configured"})
		return
	}

	if err := h.service.SyncAll(r.Context()); err != nil {
		log.Errorf("Error syncing sheet: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Error syncing sheet"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
