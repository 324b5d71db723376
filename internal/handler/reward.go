package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/points"
	"github.com/davidbloss/wghub/internal/ranking"
	"github.com/davidbloss/wghub/internal/store"
)

type RewardHandler struct {
	store  *store.Store
	ledger *points.Ledger
	logger *slog.Logger
}

func NewRewardHandler(s *store.Store, ledger *points.Ledger, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{store: s, ledger: ledger, logger: logger}
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards := h.store.Rewards()
	if rewards == nil {
		rewards = []model.RewardItem{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Emoji       string `json:"emoji"`
		Cost        int    `json:"cost"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	reward, err := h.store.AddReward(req.Title, req.Emoji, req.Cost, req.Description)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.Reward(id)
	if !ok {
		writeError(w, http.StatusNotFound, "reward not found")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Emoji       string `json:"emoji"`
		Cost        *int   `json:"cost"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title != "" {
		existing.Title = req.Title
	}
	if req.Emoji != "" {
		existing.Emoji = req.Emoji
	}
	if req.Cost != nil {
		existing.Cost = *req.Cost
	}
	if req.Description != "" {
		existing.Description = req.Description
	}

	reward, err := h.store.UpdateReward(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveReward(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Redeem spends a member's points on a reward. Insufficient funds map to
// a distinct "not enough points" message.
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	reward, err := h.ledger.Redeem(req.UserID, r.PathValue("id"))
	switch {
	case errors.Is(err, points.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "not enough points")
		return
	case errors.Is(err, points.ErrUnknownUser):
		writeError(w, http.StatusNotFound, "member not found")
		return
	case errors.Is(err, points.ErrUnknownReward):
		writeError(w, http.StatusNotFound, "reward not found")
		return
	case err != nil:
		h.logger.Error("redeem failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to redeem reward")
		return
	}

	member, _ := h.store.User(req.UserID)
	writeJSON(w, http.StatusOK, map[string]any{
		"reward":  reward,
		"balance": member.Points,
	})
}

// Leaderboard ranks members by points, descending, with badge tiers.
func (h *RewardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ranking.Leaderboard(h.store.Users()))
}
