package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type OwnerProfileDTO struct {
	ID                 int                `json:"id"`
	Name               string             `json:"name"`
	MonthlyNetIncome   *float64           `json:"monthlyNetIncome"`
	SharedContribution float64            `json:"sharedContribution"`
	BankContributions  map[string]float64 `json:"bankContributions"`
}

type SettingsDTO struct {
	MonthlyNetIncome           float64           `json:"monthlyNetIncome"`
	OwnerProfiles              []OwnerProfileDTO `json:"ownerProfiles"`
	DefaultFixedExpensesOwners []string          `json:"defaultFixedExpensesOwners"`
	BankModeEnabled            bool              `json:"bankModeEnabled"`
	BankAccounts               []string          `json:"bankAccounts"`
	LockEnabled                bool              `json:"lockEnabled"`
	LockCode                   string            `json:"lockCode,omitempty"`
}

func profileToDTO(p OwnerProfile) OwnerProfileDTO {
	dto := OwnerProfileDTO{
		ID:                 p.ID,
		Name:               p.Name,
		MonthlyNetIncome:   p.MonthlyNetIncome,
		SharedContribution: p.SharedContribution,
		BankContributions:  p.BankContributions,
	}
	if dto.BankContributions == nil {
		dto.BankContributions = map[string]float64{}
	}
	return dto
}

func profileFromDTO(dto OwnerProfileDTO) OwnerProfile {
	return OwnerProfile{
		ID:                 dto.ID,
		Name:               dto.Name,
		MonthlyNetIncome:   dto.MonthlyNetIncome,
		SharedContribution: dto.SharedContribution,
		BankContributions:  dto.BankContributions,
	}
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	settings, err := h.service.Get(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	profiles, err := h.service.GetProfiles(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := SettingsDTO{
		MonthlyNetIncome:           settings.MonthlyNetIncome,
		OwnerProfiles:              make([]OwnerProfileDTO, 0, len(profiles)),
		DefaultFixedExpensesOwners: settings.DefaultFixedExpensesOwners,
		BankModeEnabled:            settings.BankModeEnabled,
		BankAccounts:               settings.BankAccounts,
		LockEnabled:                settings.LockEnabled,
		LockCode:                   settings.LockCode,
	}
	for _, p := range profiles {
		dto.OwnerProfiles = append(dto.OwnerProfiles, profileToDTO(p))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating settings")
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), Settings{
		MonthlyNetIncome:           dto.MonthlyNetIncome,
		DefaultFixedExpensesOwners: dto.DefaultFixedExpensesOwners,
		BankModeEnabled:            dto.BankModeEnabled,
		BankAccounts:               dto.BankAccounts,
		LockEnabled:                dto.LockEnabled,
		LockCode:                   dto.LockCode,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto.MonthlyNetIncome = updated.MonthlyNetIncome
	dto.DefaultFixedExpensesOwners = updated.DefaultFixedExpensesOwners
	dto.BankAccounts = updated.BankAccounts

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	profiles, err := h.service.GetProfiles(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]OwnerProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, profileToDTO(p))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto OwnerProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateProfile(r.Context(), profileFromDTO(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(profileToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto OwnerProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.ID = id

	ok, err := h.service.UpdateProfile(r.Context(), profileFromDTO(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidProfile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Owner profile not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RenameOwner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.RenameOwner(r.Context(), id, body.Name); err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidProfile):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteOwner(r.Context(), id); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
