package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	// ErrDuplicateIdentity is the storage-level backstop for the identity
	// uniqueness invariant. Surfacing it indicates a caller bypassed the
	// assignment engine; it is logged as a defect, not shown to users.
	ErrDuplicateIdentity = errors.New("player already exists for identity")

	// Game errors
	ErrGameNotFound       = errors.New("game not found")
	ErrGameFull           = errors.New("game has reached its player limit")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrInvalidGameStatus  = errors.New("game status does not allow that transition")
	ErrRegistrationClosed = errors.New("game is not accepting registrations")
	ErrNoOpenGame         = errors.New("no game is currently open for registration")

	// Country errors
	ErrCountryNotFound    = errors.New("country not found")
	ErrCountryUnavailable = errors.New("country is controlled by another player")
	ErrCountryInUse       = errors.New("country is assigned to a player")
	ErrInvalidCountryName = errors.New("country name must be 2-100 characters")
	ErrInvalidAspectValue = errors.New("aspect values must be between 1 and 10")

	// Permission errors
	ErrForbidden = errors.New("operation requires administrator role")

	// Registration workflow errors
	ErrSessionNotFound = errors.New("no registration in progress for identity")
)
