package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/push"
	"github.com/davidbloss/wghub/internal/store"
)

type SceneHandler struct {
	store    *store.Store
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewSceneHandler(s *store.Store, notifier *push.Notifier, logger *slog.Logger) *SceneHandler {
	return &SceneHandler{store: s, notifier: notifier, logger: logger}
}

func (h *SceneHandler) List(w http.ResponseWriter, r *http.Request) {
	scenes := h.store.Scenes()
	if scenes == nil {
		scenes = []model.SmartScene{}
	}
	writeJSON(w, http.StatusOK, scenes)
}

func (h *SceneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string `json:"name"`
		Emoji            string `json:"emoji"`
		Description      string `json:"description"`
		NotificationText string `json:"notification_text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	scene, err := h.store.AddScene(req.Name, req.Emoji, req.Description, req.NotificationText)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scene)
}

func (h *SceneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.Scene(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scene not found")
		return
	}

	var req struct {
		Name             string  `json:"name"`
		Emoji            string  `json:"emoji"`
		Description      *string `json:"description"`
		NotificationText *string `json:"notification_text"`
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
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.NotificationText != nil {
		existing.NotificationText = *req.NotificationText
	}

	scene, err := h.store.UpdateScene(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scene)
}

func (h *SceneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveScene(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Toggle flips a scene on or off. Turning a scene on pushes its
// notification text to subscribed devices; turning it off is silent.
func (h *SceneHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	existing, ok := h.store.Scene(id)
	if !ok {
		writeError(w, http.StatusNotFound, "scene not found")
		return
	}

	scene, changed := h.store.SetSceneActive(id, req.Active)
	if !changed {
		// Already in the requested state.
		writeJSON(w, http.StatusOK, existing)
		return
	}

	if req.Active {
		h.notifier.SceneActivated(scene)
	}
	writeJSON(w, http.StatusOK, scene)
}
