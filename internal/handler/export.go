package handler

import (
	"log/slog"
	"net/http"

	"github.com/davidbloss/wghub/internal/export"
)

type ExportHandler struct {
	manager *export.Manager
	logger  *slog.Logger
}

func NewExportHandler(m *export.Manager, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{manager: m, logger: logger}
}

// Create snapshots the household state into an encrypted archive and,
// when S3 is configured, uploads it off-site.
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	res, err := h.manager.Export(r.Context(), req.Passphrase)
	if err != nil {
		h.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
