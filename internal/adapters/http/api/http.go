// Package api exposes the pipeline's intake and read endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/hiscores/internal/adapters/repository"
	service "github.com/okian/hiscores/internal/app"
	"github.com/okian/hiscores/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service.
type Dependencies interface {
	StatsProvider

	// Submit queues a snapshot for reconciliation. Returns false on backpressure.
	Submit(ctx context.Context, p model.Player, candidate model.Snapshot) bool

	Competitions() []model.Competition
	Standings(ctx context.Context, competitionID string, n int) ([]repository.Entry, error)
	Rank(ctx context.Context, competitionID, playerID string) (repository.Entry, error)

	Progress(ctx context.Context, playerID string) (service.PlayerProgress, error)
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the standings limit query parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.standingsHandler.maxLimit = n
		}
	}
}

// Server wires HTTP routes for the pipeline.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	snapshotsHandler *SnapshotsHandler
	standingsHandler *StandingsHandler
	playersHandler   *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		snapshotsHandler: NewSnapshotsHandler(deps),
		standingsHandler: NewStandingsHandler(deps, defaultMaxLimit),
		playersHandler:   NewPlayersHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /snapshots", MetricsMiddleware(s.snapshotsHandler.HandlePostSnapshot, "snapshots"))
	mux.HandleFunc("GET /competitions", MetricsMiddleware(s.standingsHandler.HandleListCompetitions, "competitions"))
	mux.HandleFunc("GET /competitions/{id}/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("GET /competitions/{id}/rank/{player}", MetricsMiddleware(s.standingsHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /players/{id}/progress", MetricsMiddleware(s.playersHandler.HandleGetProgress, "progress"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrUnknownCompetition)
}
