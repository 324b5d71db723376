package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/store"
)

type VaultHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewVaultHandler(s *store.Store, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{store: s, logger: logger}
}

// vaultView pairs an item with its display icon. Secure items keep their
// value in the payload; hiding it behind the reveal tap is the client's
// job, the flag tells it which default to use.
type vaultView struct {
	model.VaultItem
	Icon model.Icon `json:"icon"`
}

func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.store.VaultItems()
	views := make([]vaultView, len(items))
	for i, v := range items {
		views[i] = vaultView{VaultItem: v, Icon: model.VaultIcon(v.Type, v.CustomIcon)}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label      string          `json:"label"`
		Value      string          `json:"value"`
		Type       model.VaultType `json:"type"`
		IsSecure   bool            `json:"is_secure"`
		CustomIcon string          `json:"custom_icon"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.store.AddVaultItem(req.Label, req.Value, req.Type, req.IsSecure, req.CustomIcon)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vaultView{VaultItem: item, Icon: model.VaultIcon(item.Type, item.CustomIcon)})
}

func (h *VaultHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.VaultItem(id)
	if !ok {
		writeError(w, http.StatusNotFound, "vault item not found")
		return
	}

	var req struct {
		Label      string          `json:"label"`
		Value      string          `json:"value"`
		Type       model.VaultType `json:"type"`
		IsSecure   *bool           `json:"is_secure"`
		CustomIcon *string         `json:"custom_icon"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Label != "" {
		existing.Label = req.Label
	}
	if req.Value != "" {
		existing.Value = req.Value
	}
	if req.Type != "" {
		existing.Type = req.Type
	}
	if req.IsSecure != nil {
		existing.IsSecure = *req.IsSecure
	}
	if req.CustomIcon != nil {
		existing.CustomIcon = *req.CustomIcon
	}

	item, err := h.store.UpdateVaultItem(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vaultView{VaultItem: item, Icon: model.VaultIcon(item.Type, item.CustomIcon)})
}

func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveVaultItem(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
