package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/budsjett/budsjett/internal/rest"
	"github.com/budsjett/budsjett/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSummary serves GET /api/dashboard. The optional owners query parameter
// is a comma-separated owner filter.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ownerFilter := utils.SplitNames(r.URL.Query().Get("owners"))

	summary, err := h.service.GetSummary(r.Context(), ownerFilter)
	if err != nil {
		log.Errorf("Error computing dashboard summary: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Error computing dashboard summary"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(summary); err != nil {
		log.Errorf("Error encoding dashboard summary: %v", err)
	}
}
