package response

import (
	"time"

	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/services/registration"
)

// Player represents a player in API responses
type Player struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CountryID   string    `json:"country_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	resp := Player{
		ID:          string(p.ID),
		Identity:    string(p.Identity),
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		CreatedAt:   p.CreatedAt,
	}
	if p.CountryID != nil {
		resp.CountryID = string(*p.CountryID)
	}
	return resp
}

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Setting     string    `json:"setting,omitempty"`
	Status      string    `json:"status"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Description: g.Description,
		Setting:     g.Setting,
		Status:      string(g.Status),
		MaxPlayers:  g.MaxPlayers,
		CreatedAt:   g.CreatedAt,
	}
}

// Country represents a country in API responses
type Country struct {
	ID          string         `json:"id"`
	GameID      string         `json:"game_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Capital     string         `json:"capital,omitempty"`
	Population  int64          `json:"population,omitempty"`
	Aspects     map[string]int `json:"aspects,omitempty"`
	Synonyms    []string       `json:"synonyms,omitempty"`
	Suggested   bool           `json:"suggested"`
}

// CountryFromModel converts a model.Country to a response Country
func CountryFromModel(c *model.Country) Country {
	return Country{
		ID:          string(c.ID),
		GameID:      string(c.GameID),
		Name:        c.Name,
		Description: c.Description,
		Capital:     c.Capital,
		Population:  c.Population,
		Aspects:     c.Aspects,
		Synonyms:    c.Synonyms,
		Suggested:   c.Suggested,
	}
}

// Option represents a choice offered by a registration prompt
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Prompt represents the next step of a registration conversation
type Prompt struct {
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
	Done    bool     `json:"done"`
	Player  *Player  `json:"player,omitempty"`
}

// PromptFromWorkflow converts a registration.Prompt to a response Prompt
func PromptFromWorkflow(p *registration.Prompt) Prompt {
	resp := Prompt{
		Text: p.Text,
		Done: p.Done,
	}
	for _, opt := range p.Options {
		resp.Options = append(resp.Options, Option{Value: opt.Value, Label: opt.Label})
	}
	if p.Player != nil {
		player := PlayerFromModel(p.Player)
		resp.Player = &player
	}
	return resp
}

// Statistics represents per-game statistics in API responses
type Statistics struct {
	GameID         string `json:"game_id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Countries      int    `json:"countries"`
	AssignedCount  int    `json:"assigned_count"`
	SuggestedCount int    `json:"suggested_count"`
}

// StatisticsFromModel converts model.GameStatistics to a response Statistics
func StatisticsFromModel(s *model.GameStatistics) Statistics {
	return Statistics{
		GameID:         string(s.GameID),
		Name:           s.Name,
		Status:         string(s.Status),
		Countries:      s.Countries,
		AssignedCount:  s.AssignedCount,
		SuggestedCount: s.SuggestedCount,
	}
}
