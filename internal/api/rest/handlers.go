package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortuna/ceres/internal/ingest/scrum"
	"github.com/fortuna/ceres/internal/store"
	"github.com/fortuna/ceres/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db         *store.Database
	ingester   *scrum.Ingester
	matchRepo  *repository.MatchRepository
	teamRepo   *repository.TeamRepository
	playerRepo *repository.PlayerRepository

	harvesting atomic.Bool
}

// NewHandler creates a new handler. ingester may be nil when the API
// runs without harvest control.
func NewHandler(db *store.Database, ingester *scrum.Ingester) *Handler {
	return &Handler{
		db:         db,
		ingester:   ingester,
		matchRepo:  repository.NewMatchRepository(db),
		teamRepo:   repository.NewTeamRepository(db),
		playerRepo: repository.NewPlayerRepository(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ceres",
		"version": "1.0.0",
	})
}

// GetHarvestStatus returns the latest run record plus, when a harvest is
// in flight, the live progress snapshot.
func (h *Handler) GetHarvestStatus(w http.ResponseWriter, r *http.Request) {
	run, err := h.matchRepo.LatestRun(r.Context())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusInternalServerError, "Failed to fetch harvest run", err)
		return
	}

	response := map[string]interface{}{
		"running": h.harvesting.Load(),
	}
	if run != nil {
		response["last_run"] = run
	}
	if h.ingester != nil && h.harvesting.Load() {
		response["progress"] = h.ingester.Progress()
	}

	respondJSON(w, http.StatusOK, response)
}

// StartHarvest launches a harvest in the background. Only one harvest
// runs at a time.
func (h *Handler) StartHarvest(w http.ResponseWriter, r *http.Request) {
	if h.ingester == nil {
		respondError(w, http.StatusServiceUnavailable, "Harvesting is not enabled on this instance", nil)
		return
	}
	if !h.harvesting.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "A harvest is already running", nil)
		return
	}

	go func() {
		defer h.harvesting.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), 72*time.Hour)
		defer cancel()
		if _, err := h.ingester.Harvest(ctx); err != nil {
			zap.S().Errorf("[api] harvest failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Harvest started",
	})
}

// GetMatch returns one stored match by id
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]

	match, err := h.matchRepo.GetByID(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Match not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch match", err)
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// GetMatchCount returns the number of harvested matches
func (h *Handler) GetMatchCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.matchRepo.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count matches", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// GetTeams returns all known teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// GetPlayer returns one stored player by id
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerID"]

	player, err := h.playerRepo.GetByID(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Player not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch player", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// GetPlayerCount returns the number of known players
func (h *Handler) GetPlayerCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.playerRepo.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
