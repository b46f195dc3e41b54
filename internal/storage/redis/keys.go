package redis

import (
	"fmt"

	"github.com/playbypost/statecraft/internal/model"
)

// Key prefix for all statecraft data
const keyPrefix = "statecraft"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// identityIndexKey returns the Redis key for the identity -> player_id index.
// SETNX on this key is the storage-level identity uniqueness constraint.
func identityIndexKey(identity model.Identity) string {
	return fmt.Sprintf("%s:idx:identity:%s", keyPrefix, identity)
}

// playersIndexKey returns the Redis key for the SET of all player IDs
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game IDs
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// countryKey returns the Redis key for a Country
func countryKey(id model.CountryID) string {
	return fmt.Sprintf("%s:country:%s", keyPrefix, id)
}

// countriesForGameIndexKey returns the Redis key for the SET of country IDs in a game
func countriesForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:countries_for_game:%s", keyPrefix, gameID)
}

// controllerIndexKey returns the Redis key for the country -> controlling
// player index. SETNX on this key is the one-controller-per-country constraint.
func controllerIndexKey(id model.CountryID) string {
	return fmt.Sprintf("%s:idx:controller:%s", keyPrefix, id)
}

// sessionKey returns the Redis key for a RegistrationSession
func sessionKey(identity model.Identity) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, identity)
}
