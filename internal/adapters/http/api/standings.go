package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/hiscores/internal/adapters/repository"
	"github.com/okian/hiscores/internal/domain/model"
)

const (
	defaultMaxLimit = 100
	defaultLimit    = 20
)

// StandingsReader reads competition standings.
type StandingsReader interface {
	Competitions() []model.Competition
	Standings(ctx context.Context, competitionID string, n int) ([]repository.Entry, error)
	Rank(ctx context.Context, competitionID, playerID string) (repository.Entry, error)
}

// StandingsHandler handles competition requests.
type StandingsHandler struct {
	deps     StandingsReader
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsReader, maxLimit int) *StandingsHandler {
	return &StandingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleListCompetitions handles GET /competitions requests.
func (h *StandingsHandler) HandleListCompetitions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Competitions())
}

// HandleGetStandings handles GET /competitions/{id}/standings?limit=N requests.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	n := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}
	entries, err := h.deps.Standings(r.Context(), r.PathValue("id"), n)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetRank handles GET /competitions/{id}/rank/{player} requests.
func (h *StandingsHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Rank(r.Context(), r.PathValue("id"), r.PathValue("player"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *StandingsHandler) fail(w http.ResponseWriter, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
