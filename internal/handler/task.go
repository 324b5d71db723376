package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/model"
	"github.com/davidbloss/wghub/internal/points"
	"github.com/davidbloss/wghub/internal/rotation"
	"github.com/davidbloss/wghub/internal/store"
)

type TaskHandler struct {
	store  *store.Store
	ledger *points.Ledger
	engine *rotation.Engine
	logger *slog.Logger
}

func NewTaskHandler(s *store.Store, ledger *points.Ledger, engine *rotation.Engine, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{store: s, ledger: ledger, engine: engine, logger: logger}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks := h.store.Tasks()
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string `json:"title"`
		AssignedTo string `json:"assigned_to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.store.AddTask(req.Title, req.AssignedTo)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.store.Task(id)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var req struct {
		Title      string `json:"title"`
		AssignedTo string `json:"assigned_to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title != "" {
		existing.Title = req.Title
	}
	existing.AssignedTo = req.AssignedTo

	task, err := h.store.UpdateTask(existing)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveTask(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks the task done and pays the assignee. Tapping twice pays
// once.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, err := h.ledger.CompleteTask(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Uncomplete undoes a completion, taking back the streak step and the
// award.
func (h *TaskHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	task, err := h.ledger.UncompleteTask(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Rotate triggers "rotate now", independent of the weekly scheduler.
func (h *TaskHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	tasks := h.engine.Rotate()
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Week reports the engine's current ISO year and week; clients derive the
// displayed week label from it.
func (h *TaskHandler) Week(w http.ResponseWriter, r *http.Request) {
	year, week := h.engine.CurrentWeek()
	writeJSON(w, http.StatusOK, map[string]int{"year": year, "week": week})
}
