package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusCreated  GameStatus = "created"
	GameStatusActive   GameStatus = "active"
	GameStatusPaused   GameStatus = "paused"
	GameStatusFinished GameStatus = "finished"
)

// Game is a named play session; the root of a namespace of countries
type Game struct {
	ID          GameID
	Name        string
	Description string
	Setting     string // era or world description, e.g. "modern day"
	Status      GameStatus
	MaxPlayers  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptsRegistrations reports whether new players may currently join
func (g *Game) AcceptsRegistrations() bool {
	return g.Status == GameStatusCreated || g.Status == GameStatusActive
}

// GameStatistics is a read-only summary for out-of-band reporting
type GameStatistics struct {
	GameID         GameID `json:"game_id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Countries      int    `json:"countries"`
	AssignedCount  int    `json:"assigned_countries"`
	SuggestedCount int    `json:"suggested_countries"`
}
