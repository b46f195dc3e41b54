package model

import "time"

// PlayerID uniquely identifies a player record
type PlayerID string

// Identity is the stable external user identifier (e.g. a chat platform user ID).
// At most one Player may exist per identity across the whole system.
type Identity string

// Role controls access to administrative operations
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Player represents one external user identity inside the system.
// CountryID is nil while the player is detached (mid-registration or
// administratively unassigned).
type Player struct {
	ID          PlayerID
	Identity    Identity
	DisplayName string
	Role        Role
	CountryID   *CountryID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDetached reports whether the player currently controls no country
func (p *Player) IsDetached() bool {
	return p.CountryID == nil
}

// Controls reports whether the player currently controls the given country
func (p *Player) Controls(id CountryID) bool {
	return p.CountryID != nil && *p.CountryID == id
}
