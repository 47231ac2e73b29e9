package fixedexpense

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/budsjett/budsjett/internal/rest"
	"github.com/budsjett/budsjett/internal/utils"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type PriceEntryDTO struct {
	Amount    float64   `json:"amount"`
	ChangedAt time.Time `json:"changedAt"`
}

type FixedExpenseDTO struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	AmountPerMonth     float64         `json:"amountPerMonth"`
	Category           string          `json:"category,omitempty"`
	Owners             []string        `json:"owners"`
	Level              string          `json:"level"`
	StartDate          string          `json:"startDate,omitempty"`
	BindingEndDate     string          `json:"bindingEndDate,omitempty"`
	NoticePeriodMonths *int            `json:"noticePeriodMonths"`
	Note               string          `json:"note,omitempty"`
	PriceHistory       []PriceEntryDTO `json:"priceHistory"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// PatchDTO mirrors Patch: absent fields stay unchanged, an empty date
// string clears the date.
type PatchDTO struct {
	Name               *string   `json:"name"`
	AmountPerMonth     *float64  `json:"amountPerMonth"`
	Category           *string   `json:"category"`
	Owners             *[]string `json:"owners"`
	Level              *string   `json:"level"`
	StartDate          *string   `json:"startDate"`
	BindingEndDate     *string   `json:"bindingEndDate"`
	NoticePeriodMonths *int      `json:"noticePeriodMonths"`
	Note               *string   `json:"note"`
}

func ToDTO(e FixedExpense) FixedExpenseDTO {
	history := make([]PriceEntryDTO, 0, len(e.PriceHistory))
	for _, entry := range e.PriceHistory {
		history = append(history, PriceEntryDTO{Amount: entry.Amount, ChangedAt: entry.ChangedAt})
	}
	dto := FixedExpenseDTO{
		ID:                 e.ID,
		Name:               e.Name,
		AmountPerMonth:     e.AmountPerMonth,
		Category:           e.Category,
		Owners:             e.Owners,
		Level:              string(e.Level),
		NoticePeriodMonths: e.NoticePeriodMonths,
		Note:               e.Note,
		PriceHistory:       history,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if dto.Owners == nil {
		dto.Owners = []string{}
	}
	if !e.StartDate.IsZero() {
		dto.StartDate = e.StartDate.Format("2006-01-02")
	}
	if !e.BindingEndDate.IsZero() {
		dto.BindingEndDate = e.BindingEndDate.Format("2006-01-02")
	}
	return dto
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expenses, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]FixedExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, ToDTO(e))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new fixed expense")
	w.Header().Set("Content-Type", "application/json")

	var dto FixedExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e := FixedExpense{
		Name:               dto.Name,
		AmountPerMonth:     dto.AmountPerMonth,
		Category:           dto.Category,
		Owners:             dto.Owners,
		Level:              Level(dto.Level),
		NoticePeriodMonths: dto.NoticePeriodMonths,
		Note:               dto.Note,
	}
	if dto.StartDate != "" {
		startDate, ok := utils.ParseDate(dto.StartDate)
		if !ok {
			writeBadRequest(w, errors.New("startDate is not a valid date"))
			return
		}
		e.StartDate = startDate
	}
	if dto.BindingEndDate != "" {
		bindingEnd, ok := utils.ParseDate(dto.BindingEndDate)
		if !ok {
			writeBadRequest(w, errors.New("bindingEndDate is not a valid date"))
			return
		}
		e.BindingEndDate = bindingEnd
	}

	created, err := h.service.Create(r.Context(), e)
	if err != nil {
		if errors.Is(err, ErrInvalidExpense) {
			writeBadRequest(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ToDTO(created)); err != nil {
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

	var dto PatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch, err := patchFromDTO(dto)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrInvalidExpense) {
			writeBadRequest(w, err)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Fixed expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(*updated)); err != nil {
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
		http.Error(w, "Fixed expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.service.ResetHistory(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "Fixed expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToDTO(*e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func patchFromDTO(dto PatchDTO) (Patch, error) {
	patch := Patch{
		Name:               dto.Name,
		AmountPerMonth:     dto.AmountPerMonth,
		Category:           dto.Category,
		Owners:             dto.Owners,
		NoticePeriodMonths: dto.NoticePeriodMonths,
		Note:               dto.Note,
	}
	if dto.Level != nil {
		level := Level(*dto.Level)
		patch.Level = &level
	}
	if dto.StartDate != nil {
		startDate, err := parseOptionalDate(*dto.StartDate, "startDate")
		if err != nil {
			return Patch{}, err
		}
		patch.StartDate = &startDate
	}
	if dto.BindingEndDate != nil {
		bindingEnd, err := parseOptionalDate(*dto.BindingEndDate, "bindingEndDate")
		if err != nil {
			return Patch{}, err
		}
		patch.BindingEndDate = &bindingEnd
	}
	return patch, nil
}

func parseOptionalDate(s string, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	parsed, ok := utils.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%s is not a valid date", field)
	}
	return parsed, nil
}

func writeBadRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Invalid fixed expense",
		Details: err.Error(),
	})
}
