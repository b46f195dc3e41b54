package request

// BeginRegistrationRequest is the request body for starting a registration
type BeginRegistrationRequest struct {
	DisplayName string `json:"display_name"`
}

// RegistrationInputRequest is the request body for advancing a registration
type RegistrationInputRequest struct {
	Input string `json:"input"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Setting     string `json:"setting,omitempty"`
	MaxPlayers  int    `json:"max_players,omitempty"`
}

// CreateCountryRequest is the request body for creating a country
type CreateCountryRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Capital     string         `json:"capital,omitempty"`
	Population  int64          `json:"population,omitempty"`
	Aspects     map[string]int `json:"aspects,omitempty"`
	Synonyms    []string       `json:"synonyms,omitempty"`
	Suggested   bool           `json:"suggested,omitempty"`
}

// SetSuggestedRequest is the request body for marking a country as a suggestion
type SetSuggestedRequest struct {
	Suggested bool `json:"suggested"`
}

// AssignRequest is the request body for directly assigning a player to a country
type AssignRequest struct {
	Identity    string `json:"identity"`
	GameID      string `json:"game_id"`
	CountryID   string `json:"country_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// DetachRequest is the request body for detaching a player from their country
type DetachRequest struct {
	Identity string `json:"identity"`
}
