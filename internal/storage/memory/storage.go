package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players         map[model.PlayerID]*model.Player
	identityIndex   map[model.Identity]model.PlayerID
	games           map[model.GameID]*model.Game
	countries       map[model.CountryID]*model.Country
	controllerIndex map[model.CountryID]model.PlayerID
	sessions        map[model.Identity]*model.RegistrationSession
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:         make(map[model.PlayerID]*model.Player),
		identityIndex:   make(map[model.Identity]model.PlayerID),
		games:           make(map[model.GameID]*model.Game),
		countries:       make(map[model.CountryID]*model.Country),
		controllerIndex: make(map[model.CountryID]model.PlayerID),
		sessions:        make(map[model.Identity]*model.RegistrationSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.identityIndex[player.Identity]; ok && existing != player.ID {
		return model.ErrDuplicateIdentity
	}
	s.players[player.ID] = player
	s.identityIndex[player.Identity] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) FindPlayerByIdentity(ctx context.Context, identity model.Identity) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.identityIndex[identity]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.Before(games[j].CreatedAt) })
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return model.ErrGameNotFound
	}
	for cid, c := range s.countries {
		if c.GameID == id {
			delete(s.countries, cid)
			delete(s.controllerIndex, cid)
		}
	}
	delete(s.games, id)
	return nil
}

// Country operations

func (s *Storage) SaveCountry(ctx context.Context, country *model.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[country.ID] = country
	return nil
}

func (s *Storage) GetCountry(ctx context.Context, id model.CountryID) (*model.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	country, ok := s.countries[id]
	if !ok {
		return nil, model.ErrCountryNotFound
	}
	return country, nil
}

func (s *Storage) ListCountriesByGame(ctx context.Context, gameID model.GameID) ([]*model.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	countries := make([]*model.Country, 0)
	for _, c := range s.countries {
		if c.GameID == gameID {
			countries = append(countries, c)
		}
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
	return countries, nil
}

func (s *Storage) DeleteCountry(ctx context.Context, id model.CountryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[id]; !ok {
		return model.ErrCountryNotFound
	}
	delete(s.countries, id)
	delete(s.controllerIndex, id)
	return nil
}

// Country claim operations

func (s *Storage) ClaimCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[id]; !ok {
		return model.ErrCountryNotFound
	}
	if holder, ok := s.controllerIndex[id]; ok && holder != playerID {
		return model.ErrCountryUnavailable
	}
	s.controllerIndex[id] = playerID
	return nil
}

func (s *Storage) ReleaseCountry(ctx context.Context, id model.CountryID, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if holder, ok := s.controllerIndex[id]; ok && holder == playerID {
		delete(s.controllerIndex, id)
	}
	return nil
}

func (s *Storage) CountryController(ctx context.Context, id model.CountryID) (model.PlayerID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holder, ok := s.controllerIndex[id]
	return holder, ok, nil
}

// Registration session operations

func (s *Storage) SaveRegistrationSession(ctx context.Context, session *model.RegistrationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Identity] = session
	return nil
}

func (s *Storage) GetRegistrationSession(ctx context.Context, identity model.Identity) (*model.RegistrationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[identity]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteRegistrationSession(ctx context.Context, identity model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, identity)
	return nil
}
