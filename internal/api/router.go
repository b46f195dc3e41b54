package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playbypost/statecraft/internal/api/handler"
	"github.com/playbypost/statecraft/internal/api/middleware"
	"github.com/playbypost/statecraft/internal/services/assignment"
	"github.com/playbypost/statecraft/internal/services/campaign"
	"github.com/playbypost/statecraft/internal/services/permission"
	"github.com/playbypost/statecraft/internal/services/registration"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AdapterToken       string
	CampaignController *campaign.Controller
	AssignmentEngine   *assignment.Engine
	Registration       *registration.Workflow
	PermissionGate     *permission.Gate
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	registrationHandler := handler.NewRegistrationHandler(cfg.Registration)
	gameHandler := handler.NewGameHandler(cfg.CampaignController, cfg.PermissionGate)
	countryHandler := handler.NewCountryHandler(cfg.CampaignController, cfg.PermissionGate)
	playerHandler := handler.NewPlayerHandler(cfg.AssignmentEngine, cfg.PermissionGate)

	// Create middleware
	tokenMiddleware := middleware.AdapterToken(cfg.AdapterToken)
	identityMiddleware := middleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no token)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything below speaks for an adapter and carries an identity
	authed := api.NewRoute().Subrouter()
	authed.Use(tokenMiddleware)
	authed.Use(identityMiddleware)

	// Registration conversation
	authed.HandleFunc("/registration/begin", registrationHandler.Begin).Methods(http.MethodPost)
	authed.HandleFunc("/registration/input", registrationHandler.Input).Methods(http.MethodPost)

	// Player routes
	authed.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	authed.HandleFunc("/players/me/detach", playerHandler.DetachMe).Methods(http.MethodPost)

	// Direct assignment routes (admin)
	authed.HandleFunc("/assignments", playerHandler.Assign).Methods(http.MethodPost)
	authed.HandleFunc("/assignments/detach", playerHandler.Detach).Methods(http.MethodPost)

	// Game routes
	authed.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/games/open", gameHandler.GetOpen).Methods(http.MethodGet)
	authed.HandleFunc("/games/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/games/{game_id}", gameHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/games/{game_id}/start", gameHandler.Start).Methods(http.MethodPost)
	authed.HandleFunc("/games/{game_id}/pause", gameHandler.Pause).Methods(http.MethodPost)
	authed.HandleFunc("/games/{game_id}/resume", gameHandler.Resume).Methods(http.MethodPost)
	authed.HandleFunc("/games/{game_id}/finish", gameHandler.Finish).Methods(http.MethodPost)
	authed.HandleFunc("/games/{game_id}/statistics", gameHandler.Statistics).Methods(http.MethodGet)

	// Country routes
	authed.HandleFunc("/games/{game_id}/countries", countryHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/games/{game_id}/countries", countryHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/countries/{country_id}", countryHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/countries/{country_id}", countryHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/countries/{country_id}/suggested", countryHandler.SetSuggested).Methods(http.MethodPatch)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
