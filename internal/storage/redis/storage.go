package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// SETNX enforces the one-player-per-identity constraint: if the index key
	// already exists it must point at this same player row, otherwise a second
	// row is being created for an identity that already has one.
	set, err := s.client.SetNX(ctx, identityIndexKey(player.Identity), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !set {
		existing, err := s.client.Get(ctx, identityIndexKey(player.Identity)).Result()
		if err != nil {
			return err
		}
		if existing != string(player.ID) {
			return model.ErrDuplicateIdentity
		}
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) FindPlayerByIdentity(ctx context.Context, identity model.Identity) (*model.Player, error) {
	playerID, err := s.client.Get(ctx, identityIndexKey(identity)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(playerID))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	return players, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &game)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.Before(games[j].CreatedAt) })

	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := s.GetGame(ctx, id); err != nil {
		return err
	}

	indexKey := countriesForGameIndexKey(id)
	countryIDs, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	// Cascade: countries, their claims, the game, all indexes
	pipe := s.client.Pipeline()
	for _, cid := range countryIDs {
		pipe.Del(ctx, countryKey(model.CountryID(cid)))
		pipe.Del(ctx, controllerIndexKey(model.CountryID(cid)))
	}
	pipe.Del(ctx, indexKey)
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Country operations

func (s *Storage) SaveCountry(ctx context.Context, country *model.Country) error {
	data, err := json.Marshal(country)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, countryKey(country.ID), data, 0)
	pipe.SAdd(ctx, countriesForGameIndexKey(country.GameID), string(country.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCountry(ctx context.Context, id model.CountryID) (*model.Country, error) {
	data, err := s.client.Get(ctx, countryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCountryNotFound
		}
		return nil, err
	}

	var country model.Country
	if err := json.Unmarshal(data, &country); err != nil {
		return nil, err
	}
	return &country, nil
}

func (s *Storage) ListCountriesByGame(ctx context.Context, gameID model.GameID) ([]*model.Country, error) {
	ids, err := s.client.SMembers(ctx, countriesForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Country{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = countryKey(model.CountryID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	countries := make([]*model.Country, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var country model.Country
		if err := json.Unmarshal([]byte(val.(string)), &country); err != nil {
			continue // Skip invalid data
		}
		countries = append(countries, &country)
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })

	return countries, nil
}

func (s *Storage) DeleteCountry(ctx context.Context, id model.CountryID) error {
	country, err := s.GetCountry(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, countryKey(id))
	pipe.Del(ctx, controllerIndexKey(id))
	pipe.SRem(ctx, countriesForGameIndexKey(country.GameID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Country claim operations

func (s *Storage) ClaimCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error {
	exists, err := s.client.Exists(ctx, countryKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrCountryNotFound
	}

	// SETNX is the atomic claim: when two players race for the same country,
	// exactly one SETNX succeeds.
	set, err := s.client.SetNX(ctx, controllerIndexKey(id), string(playerID), 0).Result()
	if err != nil {
		return err
	}
	if !set {
		holder, err := s.client.Get(ctx, controllerIndexKey(id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if holder != string(playerID) {
			return model.ErrCountryUnavailable
		}
	}
	return nil
}

func (s *Storage) ReleaseCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error {
	holder, err := s.client.Get(ctx, controllerIndexKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	if holder == string(playerID) {
		return s.client.Del(ctx, controllerIndexKey(id)).Err()
	}
	return nil
}

func (s *Storage) CountryController(ctx context.Context, id model.CountryID) (model.PlayerID, bool, error) {
	holder, err := s.client.Get(ctx, controllerIndexKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.PlayerID(holder), true, nil
}

// Registration session operations

func (s *Storage) SaveRegistrationSession(ctx context.Context, session *model.RegistrationSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// No TTL: the workflow imposes no timeout on user deliberation
	return s.client.Set(ctx, sessionKey(session.Identity), data, 0).Err()
}

func (s *Storage) GetRegistrationSession(ctx context.Context, identity model.Identity) (*model.RegistrationSession, error) {
	data, err := s.client.Get(ctx, sessionKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.RegistrationSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteRegistrationSession(ctx context.Context, identity model.Identity) error {
	return s.client.Del(ctx, sessionKey(identity)).Err()
}
