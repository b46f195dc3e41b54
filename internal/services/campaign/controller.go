package campaign

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/playbypost/statecraft/internal/dependencies/clock"
	"github.com/playbypost/statecraft/internal/dependencies/random"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/storage"
)

const (
	// GameIDLength is the length of generated game IDs
	GameIDLength = 6
	// GameIDAlphabet is the characters used in game IDs (avoid confusing chars)
	GameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// CountryIDLength is the length of generated country IDs
	CountryIDLength = 10
	// CountryIDAlphabet is the characters used in country IDs
	CountryIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultMaxPlayers caps registrations per game unless configured otherwise
	DefaultMaxPlayers = 10
)

// CountrySpec carries the caller-supplied attributes for a new country.
// Aspect scores are opaque to this core; only their 1-10 range is checked.
type CountrySpec struct {
	Name        string
	Description string
	Capital     string
	Population  int64
	Aspects     map[string]int
	Synonyms    []string
	Suggested   bool
}

// Controller manages game and country administration
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new campaign Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame creates a new game in the created state
func (c *Controller) CreateGame(ctx context.Context, name, description, setting string, maxPlayers int) (*model.Game, error) {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}

	now := c.clock.Now()

	// Generate unique game ID
	var id model.GameID
	for {
		id = model.GameID(c.random.String(GameIDLength, GameIDAlphabet))
		_, err := c.storage.GetGame(ctx, id)
		if errors.Is(err, model.ErrGameNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	game := &model.Game{
		ID:          id,
		Name:        name,
		Description: description,
		Setting:     setting,
		Status:      model.GameStatusCreated,
		MaxPlayers:  maxPlayers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("name", name),
		slog.Int("max_players", maxPlayers),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListGames returns all games in creation order
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// OpenGame returns the first game currently accepting registrations
func (c *Controller) OpenGame(ctx context.Context) (*model.Game, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if g.AcceptsRegistrations() {
			return g, nil
		}
	}
	return nil, model.ErrNoOpenGame
}

// StartGame moves a game from created to active
func (c *Controller) StartGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusCreated {
		return nil, model.ErrGameAlreadyStarted
	}

	game.Status = model.GameStatusActive
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game started", slog.String("game_id", string(id)))

	return game, nil
}

// PauseGame suspends an active game; registration closes while it is paused
func (c *Controller) PauseGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.transitionGame(ctx, id, model.GameStatusPaused, "game paused", model.GameStatusActive)
}

// ResumeGame reopens a paused game
func (c *Controller) ResumeGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.transitionGame(ctx, id, model.GameStatusActive, "game resumed", model.GameStatusPaused)
}

// FinishGame ends a game permanently. Finished is terminal; the game and its
// countries stay queryable for review until deleted.
func (c *Controller) FinishGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.transitionGame(ctx, id, model.GameStatusFinished, "game finished",
		model.GameStatusCreated, model.GameStatusActive, model.GameStatusPaused)
}

func (c *Controller) transitionGame(ctx context.Context, id model.GameID, to model.GameStatus, logMsg string, from ...model.GameStatus) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if game.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, model.ErrInvalidGameStatus
	}

	game.Status = to
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info(logMsg, slog.String("game_id", string(id)))

	return game, nil
}

// DeleteGame removes a game and all its countries
func (c *Controller) DeleteGame(ctx context.Context, id model.GameID) error {
	if err := c.storage.DeleteGame(ctx, id); err != nil {
		return err
	}
	c.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

// CreateCountry creates a new country in a game
func (c *Controller) CreateCountry(ctx context.Context, gameID model.GameID, spec CountrySpec) (*model.Country, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	country := &model.Country{
		ID:          model.CountryID(c.random.String(CountryIDLength, CountryIDAlphabet)),
		GameID:      gameID,
		Name:        strings.TrimSpace(spec.Name),
		Description: spec.Description,
		Capital:     spec.Capital,
		Population:  spec.Population,
		Aspects:     spec.Aspects,
		Synonyms:    spec.Synonyms,
		Suggested:   spec.Suggested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveCountry(ctx, country); err != nil {
		return nil, err
	}

	c.logger.Info("country created",
		slog.String("country_id", string(country.ID)),
		slog.String("game_id", string(gameID)),
		slog.String("name", country.Name),
	)

	return country, nil
}

// GetCountry retrieves a country by ID
func (c *Controller) GetCountry(ctx context.Context, id model.CountryID) (*model.Country, error) {
	return c.storage.GetCountry(ctx, id)
}

// ListCountries returns all countries in a game
func (c *Controller) ListCountries(ctx context.Context, gameID model.GameID) ([]*model.Country, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.ListCountriesByGame(ctx, gameID)
}

// AvailableCountries returns the suggested, unassigned countries of a game:
// the list offered during registration's example selection
func (c *Controller) AvailableCountries(ctx context.Context, gameID model.GameID) ([]*model.Country, error) {
	countries, err := c.ListCountries(ctx, gameID)
	if err != nil {
		return nil, err
	}

	available := make([]*model.Country, 0, len(countries))
	for _, country := range countries {
		if !country.Suggested {
			continue
		}
		_, assigned, err := c.storage.CountryController(ctx, country.ID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			available = append(available, country)
		}
	}
	return available, nil
}

// FindCountryByName finds a country in a game by name or synonym,
// case-insensitively. NPC countries without a controlling player are included.
func (c *Controller) FindCountryByName(ctx context.Context, gameID model.GameID, name string) (*model.Country, error) {
	countries, err := c.ListCountries(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for _, country := range countries {
		if country.Matches(name) {
			return country, nil
		}
	}
	return nil, model.ErrCountryNotFound
}

// SetSuggested marks or unmarks a country as suggested for new players
func (c *Controller) SetSuggested(ctx context.Context, id model.CountryID, suggested bool) (*model.Country, error) {
	country, err := c.storage.GetCountry(ctx, id)
	if err != nil {
		return nil, err
	}

	country.Suggested = suggested
	country.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveCountry(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

// DeleteCountry removes a country. Countries with a controlling player cannot
// be deleted; the player must switch away or be force-detached first.
func (c *Controller) DeleteCountry(ctx context.Context, id model.CountryID) error {
	if _, err := c.storage.GetCountry(ctx, id); err != nil {
		return err
	}

	_, assigned, err := c.storage.CountryController(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return model.ErrCountryInUse
	}

	if err := c.storage.DeleteCountry(ctx, id); err != nil {
		return err
	}

	c.logger.Info("country deleted", slog.String("country_id", string(id)))
	return nil
}

// Statistics returns counts for a game
func (c *Controller) Statistics(ctx context.Context, gameID model.GameID) (*model.GameStatistics, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	countries, err := c.storage.ListCountriesByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	stats := &model.GameStatistics{
		GameID:    game.ID,
		Name:      game.Name,
		Status:    string(game.Status),
		Countries: len(countries),
	}
	for _, country := range countries {
		if country.Suggested {
			stats.SuggestedCount++
		}
		_, assigned, err := c.storage.CountryController(ctx, country.ID)
		if err != nil {
			return nil, err
		}
		if assigned {
			stats.AssignedCount++
		}
	}
	return stats, nil
}

func validateSpec(spec CountrySpec) error {
	name := strings.TrimSpace(spec.Name)
	if len(name) < 2 || len(name) > 100 {
		return model.ErrInvalidCountryName
	}
	for _, value := range spec.Aspects {
		if value < 1 || value > 10 {
			return model.ErrInvalidAspectValue
		}
	}
	return nil
}
