package model

import "time"

// RegistrationState is a step in the registration conversation
type RegistrationState string

const (
	// StateAwaitingConfirmation waits for the literal confirmation token from
	// an already-registered player before allowing re-registration
	StateAwaitingConfirmation RegistrationState = "awaiting_confirmation"
	// StateAwaitingCountryChoice waits for the player to choose between a
	// suggested country and a custom one
	StateAwaitingCountryChoice RegistrationState = "awaiting_country_choice"
	// StateAwaitingExampleSelection waits for the player to name one of the
	// suggested countries
	StateAwaitingExampleSelection RegistrationState = "awaiting_example_selection"
	// StateAwaitingCustomCountryName waits for a free-text country name
	StateAwaitingCustomCountryName RegistrationState = "awaiting_custom_country_name"
)

// RegistrationSession is the per-identity conversation state. It is the only
// mutable state the registration workflow owns, keyed by external identity,
// and is discarded when the conversation completes or is cancelled. Nothing
// else is persisted before completion, so cancellation is always safe.
type RegistrationSession struct {
	Identity    Identity
	State       RegistrationState
	GameID      GameID
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
