package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/guest"
	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type GuestHandler struct {
	store  *store.Store
	issuer *guest.TokenIssuer
	logger *slog.Logger
}

func NewGuestHandler(s *store.Store, issuer *guest.TokenIssuer, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{store: s, issuer: issuer, logger: logger}
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	var passes []model.GuestPass
	if r.URL.Query().Get("active") == "true" {
		passes = h.store.ActiveGuestPasses()
	} else {
		passes = h.store.GuestPasses()
	}
	if passes == nil {
		passes = []model.GuestPass{}
	}
	writeJSON(w, http.StatusOK, passes)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GuestName    string `json:"guest_name"`
		WifiPassword string `json:"wifi_password"`
		CreatedBy    string `json:"created_by"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	pass, err := h.store.AddGuestPass(req.GuestName, req.WifiPassword, req.CreatedBy)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pass)
}

// Revoke deactivates a pass, irreversibly. Revoking twice is a no-op with
// the same answer, not an error.
func (h *GuestHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pass, changed := h.store.RevokeGuestPass(id)
	if !changed {
		existing, ok := h.store.GuestPass(id)
		if !ok {
			writeError(w, http.StatusNotFound, "guest pass not found")
			return
		}
		writeJSON(w, http.StatusOK, existing)
		return
	}
	writeJSON(w, http.StatusOK, pass)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveGuestPass(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Validate exchanges an access code for a guest session token plus the
// Wi-Fi password. Rate limited upstream.
func (h *GuestHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	pass, ok := h.store.ActiveGuestPassByCode(req.Code)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid access code")
		return
	}

	token, err := h.issuer.Issue(pass)
	if err != nil {
		h.logger.Error("issue guest token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":         token,
		"guest_name":    pass.GuestName,
		"wifi_password": pass.WifiPassword,
	})
}
