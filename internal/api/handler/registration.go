package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playbypost/statecraft/internal/api/middleware"
	"github.com/playbypost/statecraft/internal/api/request"
	"github.com/playbypost/statecraft/internal/api/response"
	"github.com/playbypost/statecraft/internal/services/registration"
)

// RegistrationHandler handles the registration conversation endpoints
type RegistrationHandler struct {
	workflow *registration.Workflow
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(workflow *registration.Workflow) *RegistrationHandler {
	return &RegistrationHandler{workflow: workflow}
}

// Begin handles POST /api/v1/registration/begin
func (h *RegistrationHandler) Begin(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.BeginRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; the adapter may not know a display name
		req = request.BeginRegistrationRequest{}
	}

	prompt, err := h.workflow.Begin(r.Context(), identity, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PromptFromWorkflow(prompt))
}

// Input handles POST /api/v1/registration/input
func (h *RegistrationHandler) Input(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.RegistrationInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	prompt, err := h.workflow.Handle(r.Context(), identity, req.Input)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PromptFromWorkflow(prompt))
}
