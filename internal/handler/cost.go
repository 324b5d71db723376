package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type CostHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewCostHandler(s *store.Store, logger *slog.Logger) *CostHandler {
	return &CostHandler{store: s, logger: logger}
}

func (h *CostHandler) List(w http.ResponseWriter, r *http.Request) {
	costs := h.store.RecurringCosts()
	if costs == nil {
		costs = []model.RecurringCost{}
	}
	writeJSON(w, http.StatusOK, costs)
}

func (h *CostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string              `json:"name"`
		Emoji      string              `json:"emoji"`
		TotalCents int64               `json:"total_cents"`
		PaidBy     string              `json:"paid_by"`
		Frequency  model.CostFrequency `json:"frequency"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	cost, err := h.store.AddRecurringCost(req.Name, req.Emoji, req.TotalCents, req.PaidBy, req.Frequency)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cost)
}

func (h *CostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.RecurringCost(id)
	if !ok {
		writeError(w, http.StatusNotFound, "recurring cost not found")
		return
	}

	var req struct {
		Name       string              `json:"name"`
		Emoji      string              `json:"emoji"`
		TotalCents *int64              `json:"total_cents"`
		PaidBy     string              `json:"paid_by"`
		Frequency  model.CostFrequency `json:"frequency"`
		IsActive   *bool               `json:"is_active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Emoji != "" {
		existing.Emoji = req.Emoji
	}
	if req.TotalCents != nil {
		existing.TotalCents = *req.TotalCents
	}
	if req.PaidBy != "" {
		existing.PaidBy = req.PaidBy
	}
	if req.Frequency != "" {
		existing.Frequency = req.Frequency
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	cost, err := h.store.UpdateRecurringCost(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

func (h *CostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveRecurringCost(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Summary reports the active total and the per-person share, both derived
// at read time from the current member count.
func (h *CostHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_cents":      h.store.CostTotalCents(),
		"per_person_cents": h.store.CostPerPersonCents(),
		"member_count":     h.store.MemberCount(),
	})
}
