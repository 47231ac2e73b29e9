package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/budsjett/budsjett/internal/rest"
	"github.com/budsjett/budsjett/internal/utils"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Amount     float64           `json:"amount"`
	Type       string            `json:"type"`
	CategoryID *int              `json:"categoryId"`
	PageID     *int              `json:"pageId"`
	Tags       []string          `json:"tags"`
	OccurredOn string            `json:"occurredOn,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func toDTO(t Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:         t.ID,
		Title:      t.Title,
		Amount:     t.Amount,
		Type:       string(t.Type),
		CategoryID: t.CategoryID,
		PageID:     t.PageID,
		Tags:       t.Tags,
		Notes:      t.Notes,
		Metadata:   t.Metadata,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if !t.OccurredOn.IsZero() {
		dto.OccurredOn = t.OccurredOn.Format("2006-01-02")
	}
	return dto
}

func fromDTO(dto TransactionDTO) (Transaction, error) {
	t := Transaction{
		ID:         dto.ID,
		Title:      dto.Title,
		Amount:     dto.Amount,
		Type:       Type(dto.Type),
		CategoryID: dto.CategoryID,
		PageID:     dto.PageID,
		Tags:       dto.Tags,
		Notes:      dto.Notes,
		Metadata:   dto.Metadata,
	}
	if dto.OccurredOn != "" {
		occurredOn, ok := utils.ParseDate(dto.OccurredOn)
		if !ok {
			return Transaction{}, errors.New("occurredOn is not a valid date")
		}
		t.OccurredOn = occurredOn
	}
	return t, nil
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	transactions, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, toDTO(t))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := fromDTO(dto)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), t)
	if err != nil {
		if errors.Is(err, ErrInvalidTransaction) {
			writeBadRequest(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.ID = id

	t, err := fromDTO(dto)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	ok, err := h.service.Update(r.Context(), t)
	if err != nil {
		if errors.Is(err, ErrInvalidTransaction) {
			writeBadRequest(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(t)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	removed, err := h.service.DeleteAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]int{"removed": removed}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Invalid transaction",
		Details: err.Error(),
	})
}
