package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playbypost/statecraft/internal/api/middleware"
	"github.com/playbypost/statecraft/internal/api/request"
	"github.com/playbypost/statecraft/internal/api/response"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/services/campaign"
	"github.com/playbypost/statecraft/internal/services/permission"
)

// GameHandler handles game management endpoints
type GameHandler struct {
	campaign *campaign.Controller
	gate     *permission.Gate
}

// NewGameHandler creates a new game handler
func NewGameHandler(campaignController *campaign.Controller, gate *permission.Gate) *GameHandler {
	return &GameHandler{campaign: campaignController, gate: gate}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("Game name is required"))
		return
	}

	game, err := h.campaign.CreateGame(r.Context(), req.Name, req.Description, req.Setting, req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.campaign.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Game, 0, len(games))
	for _, g := range games {
		resp = append(resp, response.GameFromModel(g))
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetOpen handles GET /api/v1/games/open
func (h *GameHandler) GetOpen(w http.ResponseWriter, r *http.Request) {
	game, err := h.campaign.OpenGame(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["game_id"])

	game, err := h.campaign.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Start handles POST /api/v1/games/{game_id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	id := model.GameID(mux.Vars(r)["game_id"])

	game, err := h.campaign.StartGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Pause handles POST /api/v1/games/{game_id}/pause
func (h *GameHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.campaign.PauseGame)
}

// Resume handles POST /api/v1/games/{game_id}/resume
func (h *GameHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.campaign.ResumeGame)
}

// Finish handles POST /api/v1/games/{game_id}/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.campaign.FinishGame)
}

func (h *GameHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, model.GameID) (*model.Game, error)) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	id := model.GameID(mux.Vars(r)["game_id"])

	game, err := op(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{game_id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	id := model.GameID(mux.Vars(r)["game_id"])

	if err := h.campaign.DeleteGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Statistics handles GET /api/v1/games/{game_id}/statistics
func (h *GameHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["game_id"])

	stats, err := h.campaign.Statistics(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatisticsFromModel(stats))
}
