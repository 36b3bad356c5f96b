package api

import (
	"context"
	"net/http"

	service "github.com/okian/hiscores/internal/app"
)

// ProgressReader reports a player's progress.
type ProgressReader interface {
	Progress(ctx context.Context, playerID string) (service.PlayerProgress, error)
}

// PlayersHandler handles per-player reads.
type PlayersHandler struct {
	deps ProgressReader
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps ProgressReader) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetProgress handles GET /players/{id}/progress requests.
func (h *PlayersHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.deps.Progress(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, progress)
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
