package storage

import (
	"context"

	"github.com/playbypost/statecraft/internal/model"
)

// Storage defines the interface for data persistence.
//
// Two uniqueness constraints are enforced at this layer, as the last line of
// defense behind the assignment engine:
//   - at most one player per external identity (SavePlayer returns
//     model.ErrDuplicateIdentity on violation)
//   - at most one controlling player per country (ClaimCountry returns
//     model.ErrCountryUnavailable on violation)
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	FindPlayerByIdentity(ctx context.Context, identity model.Identity) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	// DeleteGame removes a game and cascades to its countries and their claims
	DeleteGame(ctx context.Context, id model.GameID) error

	// Country operations
	SaveCountry(ctx context.Context, country *model.Country) error
	GetCountry(ctx context.Context, id model.CountryID) (*model.Country, error)
	ListCountriesByGame(ctx context.Context, gameID model.GameID) ([]*model.Country, error)
	DeleteCountry(ctx context.Context, id model.CountryID) error

	// Country claim operations. The claim index is the constraint surface for
	// the one-controller-per-country invariant; Player.CountryID remains the
	// authoritative datum and the engine keeps the two in step.
	ClaimCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error
	ReleaseCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error
	CountryController(ctx context.Context, id model.CountryID) (model.PlayerID, bool, error)

	// Registration session operations, keyed by external identity
	SaveRegistrationSession(ctx context.Context, session *model.RegistrationSession) error
	GetRegistrationSession(ctx context.Context, identity model.Identity) (*model.RegistrationSession, error)
	DeleteRegistrationSession(ctx context.Context, identity model.Identity) error
}
