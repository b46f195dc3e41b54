package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/playbypost/statecraft/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	countryID := model.CountryID("C1")
	player := &model.Player{
		ID:          "p_1",
		Identity:    "telegram:100",
		DisplayName: "Alice",
		Role:        model.RolePlayer,
		CountryID:   &countryID,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.Require().NotNil(retrieved.CountryID)
	s.Equal(countryID, *retrieved.CountryID)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestFindPlayerByIdentity() {
	player := &model.Player{ID: "p_1", Identity: "telegram:100", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.FindPlayerByIdentity(s.ctx, "telegram:100")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.ID)

	_, err = s.storage.FindPlayerByIdentity(s.ctx, "telegram:999")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerDuplicateIdentity() {
	first := &model.Player{ID: "p_1", Identity: "telegram:100", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, first))

	second := &model.Player{ID: "p_2", Identity: "telegram:100", DisplayName: "Impostor"}
	err := s.storage.SavePlayer(s.ctx, second)
	s.ErrorIs(err, model.ErrDuplicateIdentity)

	retrieved, err := s.storage.FindPlayerByIdentity(s.ctx, "telegram:100")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_1"), retrieved.ID)
}

func (s *StorageSuite) TestSavePlayerUpdateInPlace() {
	player := &model.Player{ID: "p_1", Identity: "telegram:100", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.DisplayName = "Alice Renamed"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "p_1")
	s.Require().NoError(err)
	s.Equal("Alice Renamed", retrieved.DisplayName)
}

func (s *StorageSuite) TestListPlayers() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "p_2", Identity: "telegram:200"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "p_1", Identity: "telegram:100"}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("p_1"), players[0].ID)
	s.Equal(model.PlayerID("p_2"), players[1].ID)
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:         "ABC123",
		Name:       "Cold War",
		Status:     model.GameStatusCreated,
		MaxPlayers: 10,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(game.Name, retrieved.Name)
	s.Equal(model.GameStatusCreated, retrieved.Status)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameCascades() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "G1"}))
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))
	s.Require().NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))

	err := s.storage.DeleteGame(s.ctx, "G1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "G1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetCountry(s.ctx, "C1")
	s.ErrorIs(err, model.ErrCountryNotFound)
	_, held, err := s.storage.CountryController(s.ctx, "C1")
	s.Require().NoError(err)
	s.False(held)
}

// Country tests

func (s *StorageSuite) TestSaveAndGetCountry() {
	country := &model.Country{
		ID:       "C1",
		GameID:   "G1",
		Name:     "Florin",
		Aspects:  map[string]int{"economy": 7, "military": 4},
		Synonyms: []string{"The Kingdom"},
	}

	err := s.storage.SaveCountry(s.ctx, country)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCountry(s.ctx, "C1")
	s.Require().NoError(err)
	s.Equal("Florin", retrieved.Name)
	s.Equal(7, retrieved.Aspects["economy"])
	s.Equal([]string{"The Kingdom"}, retrieved.Synonyms)
}

func (s *StorageSuite) TestListCountriesByGameSortedByName() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C2", GameID: "G1", Name: "Zubrowka"}))
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Astoria"}))
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C3", GameID: "G2", Name: "Florin"}))

	countries, err := s.storage.ListCountriesByGame(s.ctx, "G1")
	s.Require().NoError(err)
	s.Require().Len(countries, 2)
	s.Equal("Astoria", countries[0].Name)
	s.Equal("Zubrowka", countries[1].Name)
}

func (s *StorageSuite) TestDeleteCountryReleasesClaim() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))
	s.Require().NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))

	s.Require().NoError(s.storage.DeleteCountry(s.ctx, "C1"))

	_, err := s.storage.GetCountry(s.ctx, "C1")
	s.ErrorIs(err, model.ErrCountryNotFound)
	_, held, err := s.storage.CountryController(s.ctx, "C1")
	s.Require().NoError(err)
	s.False(held)
}

// Claim tests

func (s *StorageSuite) TestClaimCountry() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))

	err := s.storage.ClaimCountry(s.ctx, "C1", "p_1")
	s.Require().NoError(err)

	holder, held, err := s.storage.CountryController(s.ctx, "C1")
	s.Require().NoError(err)
	s.True(held)
	s.Equal(model.PlayerID("p_1"), holder)
}

func (s *StorageSuite) TestClaimCountryHeldByOther() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))
	s.Require().NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))

	err := s.storage.ClaimCountry(s.ctx, "C1", "p_2")
	s.ErrorIs(err, model.ErrCountryUnavailable)
}

func (s *StorageSuite) TestClaimCountryIdempotentForHolder() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))
	s.Require().NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))

	s.NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))
}

func (s *StorageSuite) TestClaimCountryNotFound() {
	err := s.storage.ClaimCountry(s.ctx, "nonexistent", "p_1")
	s.ErrorIs(err, model.ErrCountryNotFound)
}

func (s *StorageSuite) TestReleaseCountryOnlyByHolder() {
	s.Require().NoError(s.storage.SaveCountry(s.ctx, &model.Country{ID: "C1", GameID: "G1", Name: "Florin"}))
	s.Require().NoError(s.storage.ClaimCountry(s.ctx, "C1", "p_1"))

	s.Require().NoError(s.storage.ReleaseCountry(s.ctx, "C1", "p_2"))
	_, held, err := s.storage.CountryController(s.ctx, "C1")
	s.Require().NoError(err)
	s.True(held)

	s.Require().NoError(s.storage.ReleaseCountry(s.ctx, "C1", "p_1"))
	_, held, err = s.storage.CountryController(s.ctx, "C1")
	s.Require().NoError(err)
	s.False(held)
}

// Registration session tests

func (s *StorageSuite) TestSaveAndGetRegistrationSession() {
	session := &model.RegistrationSession{
		Identity:    "telegram:100",
		State:       model.StateAwaitingCountryChoice,
		GameID:      "G1",
		DisplayName: "Alice",
	}

	err := s.storage.SaveRegistrationSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegistrationSession(s.ctx, "telegram:100")
	s.Require().NoError(err)
	s.Equal(model.StateAwaitingCountryChoice, retrieved.State)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetRegistrationSessionNotFound() {
	_, err := s.storage.GetRegistrationSession(s.ctx, "telegram:100")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteRegistrationSession() {
	session := &model.RegistrationSession{Identity: "telegram:100", State: model.StateAwaitingConfirmation}
	s.Require().NoError(s.storage.SaveRegistrationSession(s.ctx, session))

	s.Require().NoError(s.storage.DeleteRegistrationSession(s.ctx, "telegram:100"))

	_, err := s.storage.GetRegistrationSession(s.ctx, "telegram:100")
	s.ErrorIs(err, model.ErrSessionNotFound)

	s.NoError(s.storage.DeleteRegistrationSession(s.ctx, "telegram:100"))
}
