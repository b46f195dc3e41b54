package handler

import (
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

// CountryHandler handles country management endpoints
type CountryHandler struct {
	campaign *campaign.Controller
	gate     *permission.Gate
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(campaignController *campaign.Controller, gate *permission.Gate) *CountryHandler {
	return &CountryHandler{campaign: campaignController, gate: gate}
}

// Create handles POST /api/v1/games/{game_id}/countries
func (h *CountryHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.CreateCountryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	country, err := h.campaign.CreateCountry(r.Context(), gameID, campaign.CountrySpec{
		Name:        req.Name,
		Description: req.Description,
		Capital:     req.Capital,
		Population:  req.Population,
		Aspects:     req.Aspects,
		Synonyms:    req.Synonyms,
		Suggested:   req.Suggested,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CountryFromModel(country))
}

// List handles GET /api/v1/games/{game_id}/countries
// The available=true query parameter restricts the list to unassigned suggestions.
func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var (
		countries []*model.Country
		err       error
	)
	if r.URL.Query().Get("available") == "true" {
		countries, err = h.campaign.AvailableCountries(r.Context(), gameID)
	} else {
		countries, err = h.campaign.ListCountries(r.Context(), gameID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Country, 0, len(countries))
	for _, c := range countries {
		resp = append(resp, response.CountryFromModel(c))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/countries/{country_id}
func (h *CountryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.CountryID(mux.Vars(r)["country_id"])

	country, err := h.campaign.GetCountry(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CountryFromModel(country))
}

// SetSuggested handles PATCH /api/v1/countries/{country_id}/suggested
func (h *CountryHandler) SetSuggested(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	id := model.CountryID(mux.Vars(r)["country_id"])

	var req request.SetSuggestedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	country, err := h.campaign.SetSuggested(r.Context(), id, req.Suggested)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CountryFromModel(country))
}

// Delete handles DELETE /api/v1/countries/{country_id}
func (h *CountryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	if err := h.gate.RequireAdmin(r.Context(), identity); err != nil {
		WriteError(w, err)
		return
	}

	id := model.CountryID(mux.Vars(r)["country_id"])

	if err := h.campaign.DeleteCountry(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
