package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playbypost/statecraft/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeCountryNotFound     = "COUNTRY_NOT_FOUND"
	CodeCountryUnavailable  = "COUNTRY_UNAVAILABLE"
	CodeCountryInUse        = "COUNTRY_IN_USE"
	CodeGameFull            = "GAME_FULL"
	CodeGameAlreadyStarted  = "GAME_ALREADY_STARTED"
	CodeInvalidGameStatus   = "INVALID_GAME_STATUS"
	CodeRegistrationClosed  = "REGISTRATION_CLOSED"
	CodeNoOpenGame          = "NO_OPEN_GAME"
	CodeNoRegistration      = "NO_REGISTRATION_IN_PROGRESS"
	CodeInvalidCountryName  = "INVALID_COUNTRY_NAME"
	CodeInvalidAspectValue  = "INVALID_ASPECT_VALUE"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrCountryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCountryNotFound, "Country no longer exists"}}
	case errors.Is(err, model.ErrCountryUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeCountryUnavailable, "Country is controlled by another player"}}
	case errors.Is(err, model.ErrCountryInUse):
		return &httpError{http.StatusConflict, APIError{CodeCountryInUse, "Country is assigned; detach its player first"}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{CodeGameFull, "Game has reached its player limit"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyStarted, "Game has already started"}}
	case errors.Is(err, model.ErrInvalidGameStatus):
		return &httpError{http.StatusConflict, APIError{CodeInvalidGameStatus, "Game status does not allow that transition"}}
	case errors.Is(err, model.ErrRegistrationClosed):
		return &httpError{http.StatusConflict, APIError{CodeRegistrationClosed, "Game is not accepting registrations"}}
	case errors.Is(err, model.ErrNoOpenGame):
		return &httpError{http.StatusNotFound, APIError{CodeNoOpenGame, "No game is open for registration"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNoRegistration, "No registration in progress; start one first"}}
	case errors.Is(err, model.ErrInvalidCountryName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCountryName, "Country name must be 2-100 characters"}}
	case errors.Is(err, model.ErrInvalidAspectValue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAspectValue, "Aspect values must be between 1 and 10"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Administrator role required"}}
	case errors.Is(err, model.ErrDuplicateIdentity):
		return &httpError{http.StatusInternalServerError, APIError{CodeConstraintViolation, "Internal consistency error"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
