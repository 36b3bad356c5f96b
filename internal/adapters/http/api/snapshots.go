package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/hiscores/internal/domain/model"
)

// SnapshotSubmitter queues snapshots for reconciliation.
type SnapshotSubmitter interface {
	Submit(ctx context.Context, p model.Player, candidate model.Snapshot) bool
}

// SnapshotsHandler handles snapshot intake.
type SnapshotsHandler struct {
	deps SnapshotSubmitter
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotSubmitter) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps}
}

type snapshotRequest struct {
	Player   model.Player   `json:"player"`
	Snapshot model.Snapshot `json:"snapshot"`
}

func (r *snapshotRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Player.ID) == "":
		return errors.New("missing player.id")
	case r.Snapshot.CreatedAt.IsZero():
		return errors.New("missing snapshot.created_at")
	case r.Snapshot.PlayerID != "" && r.Snapshot.PlayerID != r.Player.ID:
		return fmt.Errorf("snapshot.player_id %q does not match player.id %q", r.Snapshot.PlayerID, r.Player.ID)
	case r.Player.Type != "" && !r.Player.Type.Valid():
		return fmt.Errorf("unknown account type %q", r.Player.Type)
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandlePostSnapshot handles POST /snapshots requests.
func (h *SnapshotsHandler) HandlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	req.Snapshot.PlayerID = req.Player.ID

	if ok := h.deps.Submit(r.Context(), req.Player, req.Snapshot); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
