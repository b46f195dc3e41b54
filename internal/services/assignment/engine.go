package assignment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playbypost/statecraft/internal/dependencies/clock"
	"github.com/playbypost/statecraft/internal/dependencies/random"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/storage"
)

const (
	// PlayerIDLength is the length of generated player IDs
	PlayerIDLength = 12
	// PlayerIDAlphabet is the characters used in player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Config holds configuration for the assignment engine
type Config struct {
	// OwnerIdentities are external identities granted the admin role on
	// registration, independent of any game
	OwnerIdentities []model.Identity
}

// Engine is the single authorized path for binding a player identity to a
// country. Assign is an upsert by identity: re-registration updates the one
// existing player row in place and never inserts a second row for an identity
// that already has one.
type Engine struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	locks identityLocks
}

// New creates a new assignment Engine
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
	}
}

// FindPlayerByIdentity is the engine's read path, used by the registration
// workflow to decide whether a confirmation step is needed
func (e *Engine) FindPlayerByIdentity(ctx context.Context, identity model.Identity) (*model.Player, error) {
	return e.storage.FindPlayerByIdentity(ctx, identity)
}

// ListPlayers returns every player row, ordered by creation time
func (e *Engine) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return e.storage.ListPlayers(ctx)
}

// Assign binds the identity to the given country, creating the player row on
// first registration and updating it in place on every subsequent one. After
// it returns, exactly one player row exists for the identity and its country
// is the requested one; the previously held country (if any) is left in
// storage, unassigned.
//
// The check-then-act sequence is serialized per identity, and the storage
// constraints (unique identity, one controller per country) close the window
// against concurrent callers the lock cannot see.
func (e *Engine) Assign(ctx context.Context, identity model.Identity, gameID model.GameID, countryID model.CountryID, displayName string) (*model.Player, error) {
	mu := e.locks.lock(identity)
	defer mu.Unlock()

	game, err := e.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.AcceptsRegistrations() {
		return nil, model.ErrRegistrationClosed
	}

	country, err := e.storage.GetCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	if country.GameID != gameID {
		return nil, model.ErrCountryNotFound
	}

	existing, err := e.storage.FindPlayerByIdentity(ctx, identity)
	if err == nil {
		return e.update(ctx, game, existing, countryID, displayName)
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player, err := e.insert(ctx, game, identity, countryID, displayName)
	if errors.Is(err, model.ErrDuplicateIdentity) {
		// Lost the insert race to another process. The identity now has its
		// row; retry as the update it should have been.
		e.logger.Warn("identity insert race lost, retrying as update",
			slog.String("identity", string(identity)),
		)
		existing, err := e.storage.FindPlayerByIdentity(ctx, identity)
		if err != nil {
			return nil, err
		}
		return e.update(ctx, game, existing, countryID, displayName)
	}
	return player, err
}

// Detach administratively unbinds the player from their country. The country
// stays in storage, unassigned.
func (e *Engine) Detach(ctx context.Context, identity model.Identity) (*model.Player, error) {
	mu := e.locks.lock(identity)
	defer mu.Unlock()

	player, err := e.storage.FindPlayerByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if player.IsDetached() {
		return player, nil
	}

	released := *player.CountryID
	player.CountryID = nil
	player.UpdatedAt = e.clock.Now()

	if err := e.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := e.storage.ReleaseCountry(ctx, released, player.ID); err != nil {
		return nil, err
	}

	e.logger.Info("player detached",
		slog.String("identity", string(identity)),
		slog.String("country_id", string(released)),
	)

	return player, nil
}

// update mutates the identity's single existing row in place
func (e *Engine) update(ctx context.Context, game *model.Game, player *model.Player, countryID model.CountryID, displayName string) (*model.Player, error) {
	now := e.clock.Now()

	if player.Controls(countryID) {
		player.DisplayName = displayName
		player.UpdatedAt = now
		if err := e.storage.SavePlayer(ctx, player); err != nil {
			return nil, err
		}
		return player, nil
	}

	// A player already holding a country in this game is switching, which
	// leaves the assigned count unchanged; everyone else counts as an entrant
	switching, err := e.holdsCountryIn(ctx, game, player)
	if err != nil {
		return nil, err
	}
	if !switching {
		if err := e.checkCapacity(ctx, game); err != nil {
			return nil, err
		}
	}

	if err := e.storage.ClaimCountry(ctx, countryID, player.ID); err != nil {
		return nil, err
	}

	if !switching {
		if err := e.verifyCapacity(ctx, game, countryID, player.ID); err != nil {
			return nil, err
		}
	}

	prev := player.CountryID
	player.CountryID = &countryID
	player.DisplayName = displayName
	player.UpdatedAt = now

	if err := e.storage.SavePlayer(ctx, player); err != nil {
		_ = e.storage.ReleaseCountry(ctx, countryID, player.ID)
		return nil, err
	}

	if prev != nil {
		if err := e.storage.ReleaseCountry(ctx, *prev, player.ID); err != nil {
			return nil, err
		}
		e.logger.Info("player switched country",
			slog.String("identity", string(player.Identity)),
			slog.String("from", string(*prev)),
			slog.String("to", string(countryID)),
		)
	} else {
		e.logger.Info("player reassigned",
			slog.String("identity", string(player.Identity)),
			slog.String("country_id", string(countryID)),
		)
	}

	return player, nil
}

// insert creates the identity's first player row
func (e *Engine) insert(ctx context.Context, game *model.Game, identity model.Identity, countryID model.CountryID, displayName string) (*model.Player, error) {
	if err := e.checkCapacity(ctx, game); err != nil {
		return nil, err
	}

	role, err := e.resolveRole(ctx, identity)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	player := &model.Player{
		ID:          model.PlayerID("p_" + e.random.String(PlayerIDLength, PlayerIDAlphabet)),
		Identity:    identity,
		DisplayName: displayName,
		Role:        role,
		CountryID:   &countryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Claim before inserting so a lost country race leaves no player row behind
	if err := e.storage.ClaimCountry(ctx, countryID, player.ID); err != nil {
		return nil, err
	}

	if err := e.verifyCapacity(ctx, game, countryID, player.ID); err != nil {
		return nil, err
	}

	if err := e.storage.SavePlayer(ctx, player); err != nil {
		_ = e.storage.ReleaseCountry(ctx, countryID, player.ID)
		return nil, err
	}

	e.logger.Info("player registered",
		slog.String("identity", string(identity)),
		slog.String("player_id", string(player.ID)),
		slog.String("country_id", string(countryID)),
		slog.String("role", string(role)),
	)

	return player, nil
}

// holdsCountryIn reports whether the player currently holds a country
// belonging to the game. A stale CountryID pointing at a deleted country
// does not count.
func (e *Engine) holdsCountryIn(ctx context.Context, game *model.Game, player *model.Player) (bool, error) {
	if player.CountryID == nil {
		return false, nil
	}
	prev, err := e.storage.GetCountry(ctx, *player.CountryID)
	if errors.Is(err, model.ErrCountryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return prev.GameID == game.ID, nil
}

func (e *Engine) assignedCount(ctx context.Context, gameID model.GameID) (int, error) {
	countries, err := e.storage.ListCountriesByGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	assigned := 0
	for _, country := range countries {
		_, held, err := e.storage.CountryController(ctx, country.ID)
		if err != nil {
			return 0, err
		}
		if held {
			assigned++
		}
	}
	return assigned, nil
}

// checkCapacity is the fast pre-claim check: an entrant into a full game
// fails before touching any claim
func (e *Engine) checkCapacity(ctx context.Context, game *model.Game) error {
	assigned, err := e.assignedCount(ctx, game.ID)
	if err != nil {
		return err
	}
	if assigned >= game.MaxPlayers {
		return model.ErrGameFull
	}
	return nil
}

// verifyCapacity re-counts after the entrant's claim has landed. Two
// entrants racing for the last slot can both pass the pre-claim check and
// claim distinct countries; whoever observes the count over the limit backs
// their claim out, so the game never exceeds MaxPlayers.
func (e *Engine) verifyCapacity(ctx context.Context, game *model.Game, countryID model.CountryID, playerID model.PlayerID) error {
	assigned, err := e.assignedCount(ctx, game.ID)
	if err != nil {
		_ = e.storage.ReleaseCountry(ctx, countryID, playerID)
		return err
	}
	if assigned > game.MaxPlayers {
		_ = e.storage.ReleaseCountry(ctx, countryID, playerID)
		return model.ErrGameFull
	}
	return nil
}

// resolveRole determines the role for a first-time registrant: configured
// owner identities are admins, and the very first player in an empty system
// bootstraps as admin so every deployment has one.
func (e *Engine) resolveRole(ctx context.Context, identity model.Identity) (model.Role, error) {
	for _, owner := range e.cfg.OwnerIdentities {
		if owner == identity {
			return model.RoleAdmin, nil
		}
	}

	if len(e.cfg.OwnerIdentities) > 0 {
		return model.RolePlayer, nil
	}

	players, err := e.storage.ListPlayers(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range players {
		if p.Role == model.RoleAdmin {
			return model.RolePlayer, nil
		}
	}
	return model.RoleAdmin, nil
}
