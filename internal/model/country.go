package model

import (
	"strings"
	"time"
)

// CountryID uniquely identifies a country
type CountryID string

// Country belongs to exactly one game. It is unassigned until a player claims
// it, and survives the player switching away; only an administrator removes it.
// Aspects are opaque descriptive scores owned by simulation logic outside this
// core; they are stored and surfaced verbatim.
type Country struct {
	ID          CountryID
	GameID      GameID
	Name        string
	Description string
	Capital     string
	Population  int64
	Aspects     map[string]int
	Synonyms    []string
	Suggested   bool // offered to new players during registration
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Matches reports whether the given name matches the country's name or one of
// its synonyms, case-insensitively
func (c *Country) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.ToLower(c.Name) == name {
		return true
	}
	for _, syn := range c.Synonyms {
		if strings.ToLower(syn) == name {
			return true
		}
	}
	return false
}
