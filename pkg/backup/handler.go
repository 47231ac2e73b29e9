package backup

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/budsjett/budsjett/internal/rest"
	log "github.com/sirupsen/logrus"
)

// importBodyLimit guards against runaway upload sizes.
const importBodyLimit = 32 << 20

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Export(r.Context())
	if err != nil {
		log.Errorf("Error exporting backup: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Error exporting backup"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="budsjett-backup.json"`)
	if err = json.NewEncoder(w).Encode(doc); err != nil {
		log.Errorf("Error encoding backup export: %v", err)
	}
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, importBodyLimit))
	if err != nil {
		log.Errorf("Error reading import body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Error reading import body"})
		return
	}

	result, err := h.service.Import(r.Context(), raw)
	if err != nil {
		log.Warnf("Rejected backup import: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid import document", Details: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(result); err != nil {
		log.Errorf("Error encoding import result: %v", err)
	}
}
