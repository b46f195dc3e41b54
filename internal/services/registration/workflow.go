package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playbypost/statecraft/internal/dependencies/clock"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/services/assignment"
	"github.com/playbypost/statecraft/internal/services/campaign"
	"github.com/playbypost/statecraft/internal/storage"
)

// Option values for the country choice step
const (
	ChoiceSuggested = "suggested"
	ChoiceCustom    = "custom"
)

// Config holds configuration for the registration workflow
type Config struct {
	// ConfirmToken is the literal phrase an already-registered player must
	// send to proceed with re-registration. Compared after trimming
	// whitespace; any other input cancels the attempt.
	ConfirmToken string
}

// DefaultConfig returns default workflow configuration
func DefaultConfig() Config {
	return Config{
		ConfirmToken: "CONFIRM",
	}
}

// Option is a structured choice offered to the user
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Prompt is what the workflow emits back to the transport adapter for
// rendering. The adapter owns presentation; the text here is plain fallback
// copy and the options are the structured choices.
type Prompt struct {
	Identity model.Identity `json:"identity"`
	Text     string         `json:"text"`
	Options  []Option       `json:"options,omitempty"`
	// Done marks the end of the conversation (completed or cancelled)
	Done bool `json:"done"`
	// Player is set when the conversation completed with an assignment
	Player *model.Player `json:"player,omitempty"`
}

// Workflow drives the per-identity registration conversation. Its only
// mutable state is the RegistrationSession persisted in storage, keyed by
// identity, so an in-flight conversation survives a process restart. The
// assignment engine is invoked exactly once, at the terminal step.
type Workflow struct {
	storage  storage.Storage
	engine   *assignment.Engine
	campaign *campaign.Controller
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config
}

// New creates a new registration Workflow
func New(
	storage storage.Storage,
	engine *assignment.Engine,
	campaign *campaign.Controller,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Workflow {
	if cfg.ConfirmToken == "" {
		cfg.ConfirmToken = DefaultConfig().ConfirmToken
	}
	return &Workflow{
		storage:  storage,
		engine:   engine,
		campaign: campaign,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
	}
}

// Begin starts (or restarts) a registration conversation for the identity.
// If a player row already exists for the identity, the conversation opens
// with a confirmation step so an accidental request cannot destroy an active
// position; otherwise it goes straight to the country choice.
func (w *Workflow) Begin(ctx context.Context, identity model.Identity, displayName string) (*Prompt, error) {
	game, err := w.campaign.OpenGame(ctx)
	if err != nil {
		return nil, err
	}

	now := w.clock.Now()
	session := &model.RegistrationSession{
		Identity:    identity,
		GameID:      game.ID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := w.engine.FindPlayerByIdentity(ctx, identity)
	switch {
	case err == nil:
		session.State = model.StateAwaitingConfirmation
		if err := w.storage.SaveRegistrationSession(ctx, session); err != nil {
			return nil, err
		}
		return w.confirmationPrompt(ctx, identity, existing), nil
	case errors.Is(err, model.ErrPlayerNotFound):
		session.State = model.StateAwaitingCountryChoice
		if err := w.storage.SaveRegistrationSession(ctx, session); err != nil {
			return nil, err
		}
		return w.choicePrompt(ctx, session, "")
	default:
		return nil, err
	}
}

// Handle advances the conversation with the user's raw input
func (w *Workflow) Handle(ctx context.Context, identity model.Identity, input string) (*Prompt, error) {
	session, err := w.storage.GetRegistrationSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	var prompt *Prompt
	switch session.State {
	case model.StateAwaitingConfirmation:
		prompt, err = w.handleConfirmation(ctx, session, input)
	case model.StateAwaitingCountryChoice:
		prompt, err = w.handleCountryChoice(ctx, session, input)
	case model.StateAwaitingExampleSelection:
		prompt, err = w.handleExampleSelection(ctx, session, input)
	case model.StateAwaitingCustomCountryName:
		prompt, err = w.handleCustomCountryName(ctx, session, input)
	default:
		// Unknown persisted state: drop the session rather than wedge the user
		w.logger.Error("registration session in unknown state",
			slog.String("identity", string(identity)),
			slog.String("state", string(session.State)),
		)
		if err := w.storage.DeleteRegistrationSession(ctx, identity); err != nil {
			return nil, err
		}
		return nil, model.ErrSessionNotFound
	}

	if errors.Is(err, model.ErrGameNotFound) {
		// The game this session was registering into is gone
		if derr := w.storage.DeleteRegistrationSession(ctx, identity); derr != nil {
			return nil, derr
		}
		return nil, model.ErrSessionNotFound
	}
	return prompt, err
}

func (w *Workflow) handleConfirmation(ctx context.Context, session *model.RegistrationSession, input string) (*Prompt, error) {
	if strings.TrimSpace(input) != w.cfg.ConfirmToken {
		// Anything but the literal token cancels; nothing was persisted, so
		// cancellation is always safe
		if err := w.storage.DeleteRegistrationSession(ctx, session.Identity); err != nil {
			return nil, err
		}
		return &Prompt{
			Identity: session.Identity,
			Text:     "Registration cancelled. Your current position is unchanged.",
			Done:     true,
		}, nil
	}

	session.State = model.StateAwaitingCountryChoice
	session.UpdatedAt = w.clock.Now()
	if err := w.storage.SaveRegistrationSession(ctx, session); err != nil {
		return nil, err
	}

	return w.choicePrompt(ctx, session, "")
}

func (w *Workflow) handleCountryChoice(ctx context.Context, session *model.RegistrationSession, input string) (*Prompt, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case ChoiceSuggested, "1":
		available, err := w.campaign.AvailableCountries(ctx, session.GameID)
		if err != nil {
			return nil, err
		}
		if len(available) == 0 {
			return w.choicePrompt(ctx, session, "There are no suggested countries right now.")
		}

		session.State = model.StateAwaitingExampleSelection
		session.UpdatedAt = w.clock.Now()
		if err := w.storage.SaveRegistrationSession(ctx, session); err != nil {
			return nil, err
		}
		return w.selectionPrompt(session, available, ""), nil

	case ChoiceCustom, "2":
		session.State = model.StateAwaitingCustomCountryName
		session.UpdatedAt = w.clock.Now()
		if err := w.storage.SaveRegistrationSession(ctx, session); err != nil {
			return nil, err
		}
		return &Prompt{
			Identity: session.Identity,
			Text:     "What will your country be called?",
		}, nil

	default:
		return w.choicePrompt(ctx, session, "")
	}
}

func (w *Workflow) handleExampleSelection(ctx context.Context, session *model.RegistrationSession, input string) (*Prompt, error) {
	available, err := w.campaign.AvailableCountries(ctx, session.GameID)
	if err != nil {
		return nil, err
	}

	var selected *model.Country
	for _, country := range available {
		if country.Matches(input) {
			selected = country
			break
		}
	}
	if selected == nil {
		return w.selectionPrompt(session, available, "That is not one of the suggested countries."), nil
	}

	return w.complete(ctx, session, selected, true)
}

func (w *Workflow) handleCustomCountryName(ctx context.Context, session *model.RegistrationSession, input string) (*Prompt, error) {
	country, err := w.campaign.CreateCountry(ctx, session.GameID, campaign.CountrySpec{
		Name: input,
	})
	if errors.Is(err, model.ErrInvalidCountryName) {
		return &Prompt{
			Identity: session.Identity,
			Text:     "A country name must be between 2 and 100 characters. What will your country be called?",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	prompt, err := w.complete(ctx, session, country, false)
	if err != nil {
		// Country creation and assignment are one logical unit: do not leave
		// an orphaned country behind when the assignment failed
		_ = w.storage.DeleteCountry(ctx, country.ID)
		return nil, err
	}
	return prompt, nil
}

// complete is the terminal step: the single call into the assignment engine
func (w *Workflow) complete(ctx context.Context, session *model.RegistrationSession, country *model.Country, clearSuggested bool) (*Prompt, error) {
	player, err := w.engine.Assign(ctx, session.Identity, session.GameID, country.ID, session.DisplayName)
	if errors.Is(err, model.ErrCountryUnavailable) {
		// Lost the race for this country; back to the choice step with a
		// refreshed list
		session.State = model.StateAwaitingCountryChoice
		session.UpdatedAt = w.clock.Now()
		if saveErr := w.storage.SaveRegistrationSession(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return w.choicePrompt(ctx, session, fmt.Sprintf("%s was just claimed by another player.", country.Name))
	}
	if err != nil {
		return nil, err
	}

	if clearSuggested {
		if _, err := w.campaign.SetSuggested(ctx, country.ID, false); err != nil {
			w.logger.Warn("failed to clear suggested mark",
				slog.String("country_id", string(country.ID)),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := w.storage.DeleteRegistrationSession(ctx, session.Identity); err != nil {
		return nil, err
	}

	w.logger.Info("registration completed",
		slog.String("identity", string(session.Identity)),
		slog.String("country_id", string(country.ID)),
		slog.String("game_id", string(session.GameID)),
	)

	return &Prompt{
		Identity: session.Identity,
		Text:     fmt.Sprintf("Registration complete. You now lead %s.", country.Name),
		Done:     true,
		Player:   player,
	}, nil
}

func (w *Workflow) confirmationPrompt(ctx context.Context, identity model.Identity, player *model.Player) *Prompt {
	position := "You are already registered."
	if player.CountryID != nil {
		if country, err := w.storage.GetCountry(ctx, *player.CountryID); err == nil {
			position = fmt.Sprintf("You are already registered as the leader of %s.", country.Name)
		}
	}
	return &Prompt{
		Identity: identity,
		Text: fmt.Sprintf("%s Registering again will abandon that position. Reply %s to continue; anything else cancels.",
			position, w.cfg.ConfirmToken),
	}
}

func (w *Workflow) choicePrompt(ctx context.Context, session *model.RegistrationSession, note string) (*Prompt, error) {
	available, err := w.campaign.AvailableCountries(ctx, session.GameID)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, 2)
	if len(available) > 0 {
		options = append(options, Option{
			Value: ChoiceSuggested,
			Label: fmt.Sprintf("Choose one of %d suggested countries", len(available)),
		})
	}
	options = append(options, Option{
		Value: ChoiceCustom,
		Label: "Found your own country",
	})

	text := "How would you like to enter the game?"
	if note != "" {
		text = note + " " + text
	}

	return &Prompt{
		Identity: session.Identity,
		Text:     text,
		Options:  options,
	}, nil
}

func (w *Workflow) selectionPrompt(session *model.RegistrationSession, available []*model.Country, note string) *Prompt {
	options := make([]Option, 0, len(available))
	for _, country := range available {
		options = append(options, Option{
			Value: country.Name,
			Label: country.Name,
		})
	}

	text := "Which country will you lead?"
	if note != "" {
		text = note + " " + text
	}

	return &Prompt{
		Identity: session.Identity,
		Text:     text,
		Options:  options,
	}
}
