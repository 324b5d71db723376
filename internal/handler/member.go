package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/points"
	"github.com/davidbloss/wghub/internal/push"
	"github.com/davidbloss/wghub/internal/store"
)

type MemberHandler struct {
	store    *store.Store
	ledger   *points.Ledger
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewMemberHandler(s *store.Store, ledger *points.Ledger, notifier *push.Notifier, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{store: s, ledger: ledger, notifier: notifier, logger: logger}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members := h.store.Users()
	if members == nil {
		members = []model.User{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string     `json:"name"`
		Role        model.Role `json:"role"`
		AvatarEmoji string     `json:"avatar_emoji"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	member, err := h.store.AddUser(req.Name, req.Role, req.AvatarEmoji)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.User(id)
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req struct {
		Name                string          `json:"name"`
		Role                model.Role      `json:"role"`
		AvatarEmoji         string          `json:"avatar_emoji"`
		LevelTitle          string          `json:"level_title"`
		OnboardingCompleted *bool           `json:"onboarding_completed"`
		OnboardingSteps     map[string]bool `json:"onboarding_steps"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Role != "" {
		existing.Role = req.Role
	}
	if req.AvatarEmoji != "" {
		existing.AvatarEmoji = req.AvatarEmoji
	}
	if req.LevelTitle != "" {
		existing.LevelTitle = req.LevelTitle
	}
	if req.OnboardingCompleted != nil {
		existing.OnboardingCompleted = *req.OnboardingCompleted
	}
	if req.OnboardingSteps != nil {
		existing.OnboardingSteps = req.OnboardingSteps
	}

	member, err := h.store.UpdateUser(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveUser(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Kudos pays the fixed kudos amount to the named member and notifies the
// household.
func (h *MemberHandler) Kudos(w http.ResponseWriter, r *http.Request) {
	h.peerAdjust(w, r, true)
}

// Shame applies the fixed shame penalty to the named member and notifies
// the household.
func (h *MemberHandler) Shame(w http.ResponseWriter, r *http.Request) {
	h.peerAdjust(w, r, false)
}

func (h *MemberHandler) peerAdjust(w http.ResponseWriter, r *http.Request, kudos bool) {
	target := r.PathValue("name")

	var req struct {
		From string `json:"from"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		member model.User
		err    error
	)
	if kudos {
		member, err = h.ledger.SendKudos(target)
	} else {
		member, err = h.ledger.SendShame(target)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	if kudos {
		h.notifier.KudosReceived(req.From, target)
	} else {
		h.notifier.ShameReceived(req.From, target)
	}
	writeJSON(w, http.StatusOK, member)
}
