package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playbypost/statecraft/internal/api/middleware"
	"github.com/playbypost/statecraft/internal/api/request"
	"github.com/playbypost/statecraft/internal/api/response"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/services/assignment"
	"github.com/playbypost/statecraft/internal/services/permission"
)

// PlayerHandler handles player and assignment endpoints
type PlayerHandler struct {
	engine *assignment.Engine
	gate   *permission.Gate
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(engine *assignment.Engine, gate *permission.Gate) *PlayerHandler {
	return &PlayerHandler{engine: engine, gate: gate}
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	player, err := h.engine.FindPlayerByIdentity(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// DetachMe handles POST /api/v1/players/me/detach
// A player may always walk away from their own country.
func (h *PlayerHandler) DetachMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	player, err := h.engine.Detach(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	players, err := h.engine.ListPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Player, 0, len(players))
	for _, p := range players {
		resp = append(resp, response.PlayerFromModel(p))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Assign handles POST /api/v1/assignments
// Admin-only direct assignment, bypassing the registration conversation.
func (h *PlayerHandler) Assign(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	var req request.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Identity == "" || req.GameID == "" || req.CountryID == "" {
		WriteError(w, NewInvalidRequestError("identity, game_id and country_id are required"))
		return
	}

	player, err := h.engine.Assign(r.Context(),
		model.Identity(req.Identity),
		model.GameID(req.GameID),
		model.CountryID(req.CountryID),
		req.DisplayName,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Detach handles POST /api/v1/assignments/detach
// Admin-only detach of an arbitrary identity.
func (h *PlayerHandler) Detach(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	var req request.DetachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Identity == "" {
		WriteError(w, NewInvalidRequestError("identity is required"))
		return
	}

	player, err := h.engine.Detach(r.Context(), model.Identity(req.Identity))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
