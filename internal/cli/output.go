package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case []Player:
		o.printPlayers(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case Country:
		o.printCountry(v)
	case []Country:
		o.printCountries(v)
	case Prompt:
		o.printPrompt(v)
	case Statistics:
		o.printStatistics(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CountryID   string    `json:"country_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Game response type
type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Setting     string `json:"setting,omitempty"`
	Status      string `json:"status"`
	MaxPlayers  int    `json:"max_players"`
}

// Country response type
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

// PromptOption response type
type PromptOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Prompt response type
type Prompt struct {
	Text    string         `json:"text"`
	Options []PromptOption `json:"options,omitempty"`
	Done    bool           `json:"done"`
	Player  *Player        `json:"player,omitempty"`
}

// Statistics response type
type Statistics struct {
	GameID         string `json:"game_id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Countries      int    `json:"countries"`
	AssignedCount  int    `json:"assigned_count"`
	SuggestedCount int    `json:"suggested_count"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Identity: %s\n", p.Identity)
	fmt.Printf("Role: %s\n", p.Role)
	if p.CountryID != "" {
		fmt.Printf("Country: %s\n", p.CountryID)
	} else {
		fmt.Println("Country: (none)")
	}
}

func (o *Output) printPlayers(players []Player) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		country := p.CountryID
		if country == "" {
			country = "-"
		}
		fmt.Printf("  - %s (%s) role=%s country=%s\n", p.DisplayName, p.Identity, p.Role, country)
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Max Players: %d\n", g.MaxPlayers)
	if g.Setting != "" {
		fmt.Printf("Setting: %s\n", g.Setting)
	}
	if g.Description != "" {
		fmt.Printf("Description: %s\n", g.Description)
	}
}

func (o *Output) printGames(games []Game) {
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		fmt.Printf("  - %s (%s) [%s]\n", g.Name, g.ID, g.Status)
	}
}

func (o *Output) printCountry(c Country) {
	fmt.Printf("Country: %s (%s)\n", c.Name, c.ID)
	fmt.Printf("Game: %s\n", c.GameID)
	if c.Capital != "" {
		fmt.Printf("Capital: %s\n", c.Capital)
	}
	if c.Population > 0 {
		fmt.Printf("Population: %d\n", c.Population)
	}
	if len(c.Synonyms) > 0 {
		fmt.Printf("Synonyms: %s\n", strings.Join(c.Synonyms, ", "))
	}
	if len(c.Aspects) > 0 {
		names := make([]string, 0, len(c.Aspects))
		for name := range c.Aspects {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Aspects:")
		for _, name := range names {
			fmt.Printf("  %s: %d\n", name, c.Aspects[name])
		}
	}
	if c.Suggested {
		fmt.Println("Suggested: yes")
	}
	if c.Description != "" {
		fmt.Printf("Description: %s\n", c.Description)
	}
}

func (o *Output) printCountries(countries []Country) {
	fmt.Printf("Countries (%d):\n", len(countries))
	for _, c := range countries {
		suggested := ""
		if c.Suggested {
			suggested = " [suggested]"
		}
		fmt.Printf("  - %s (%s)%s\n", c.Name, c.ID, suggested)
	}
}

func (o *Output) printPrompt(p Prompt) {
	fmt.Println(p.Text)
	for i, opt := range p.Options {
		fmt.Printf("  %d. %s\n", i+1, opt.Label)
	}
	if p.Done && p.Player != nil {
		fmt.Println()
		o.printPlayer(*p.Player)
	}
}

func (o *Output) printStatistics(s Statistics) {
	fmt.Printf("Game: %s (%s)\n", s.Name, s.GameID)
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Countries: %d\n", s.Countries)
	fmt.Printf("Assigned: %d\n", s.AssignedCount)
	fmt.Printf("Suggested: %d\n", s.SuggestedCount)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
