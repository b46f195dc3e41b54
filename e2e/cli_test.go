package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbypost/statecraft/internal/api"
	"github.com/playbypost/statecraft/internal/factory"
	"github.com/playbypost/statecraft/internal/model"
)

const (
	adapterToken  = "e2e-adapter-token"
	adminIdentity = "cli:admin"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "statecraft-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/statecraft")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) runAs(identity string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", adapterToken,
		"--identity", identity,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	app, err := factory.New(factory.Config{
		OwnerIdentities: []model.Identity{adminIdentity},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AdapterToken:       adapterToken,
		CampaignController: app.CampaignController,
		AssignmentEngine:   app.AssignmentEngine,
		Registration:       app.Registration,
		PermissionGate:     app.PermissionGate,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type gameResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	MaxPlayers int    `json:"max_players"`
}

type countryResponse struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	Name      string `json:"name"`
	Suggested bool   `json:"suggested"`
}

type playerResponse struct {
	ID          string `json:"id"`
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	CountryID   string `json:"country_id"`
}

type promptResponse struct {
	Text    string `json:"text"`
	Options []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	} `json:"options"`
	Done   bool            `json:"done"`
	Player *playerResponse `json:"player"`
}

type statisticsResponse struct {
	Countries      int `json:"countries"`
	AssignedCount  int `json:"assigned_count"`
	SuggestedCount int `json:"suggested_count"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.runAs(adminIdentity, "health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_GameLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a game
	output, err := cli.runAs(adminIdentity, "game", "create", "--name", "Cold War 1962", "--max-players", "4")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "Cold War 1962", game.Name)
	assert.Equal(t, "created", game.Status)
	assert.Equal(t, 4, game.MaxPlayers)

	// Open game is the one we just created
	output, err = cli.runAs(adminIdentity, "game", "open")
	require.NoError(t, err, "output: %s", output)
	var open gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &open))
	assert.Equal(t, game.ID, open.ID)

	// List contains it
	output, err = cli.runAs(adminIdentity, "game", "list")
	require.NoError(t, err, "output: %s", output)
	var games []gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &games))
	assert.Len(t, games, 1)

	// Start it
	output, err = cli.runAs(adminIdentity, "game", "start", game.ID)
	require.NoError(t, err, "output: %s", output)
	var started gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &started))
	assert.Equal(t, "active", started.Status)

	// Pause, resume, finish
	output, err = cli.runAs(adminIdentity, "game", "pause", game.ID)
	require.NoError(t, err, "output: %s", output)
	var paused gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &paused))
	assert.Equal(t, "paused", paused.Status)

	output, err = cli.runAs(adminIdentity, "game", "resume", game.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.runAs(adminIdentity, "game", "finish", game.ID)
	require.NoError(t, err, "output: %s", output)
	var finished gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &finished))
	assert.Equal(t, "finished", finished.Status)
}

func TestCLI_RegistrationConversation(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Admin sets up the game with one suggested country
	output, err := cli.runAs(adminIdentity, "game", "create", "--name", "Test Game")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))

	output, err = cli.runAs(adminIdentity, "country", "create", game.ID,
		"--name", "Astoria", "--suggested", "--aspect", "economy=7")
	require.NoError(t, err, "output: %s", output)
	var country countryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &country))
	assert.True(t, country.Suggested)

	// A player registers
	output, err = cli.runAs("telegram:100", "register", "begin", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var prompt promptResponse
	require.NoError(t, json.Unmarshal([]byte(output), &prompt))
	assert.False(t, prompt.Done)
	require.Len(t, prompt.Options, 2)

	output, err = cli.runAs("telegram:100", "register", "input", "suggested")
	require.NoError(t, err, "output: %s", output)
	prompt = promptResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &prompt))
	require.Len(t, prompt.Options, 1)
	assert.Equal(t, "Astoria", prompt.Options[0].Value)

	output, err = cli.runAs("telegram:100", "register", "input", "Astoria")
	require.NoError(t, err, "output: %s", output)
	prompt = promptResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &prompt))
	assert.True(t, prompt.Done)
	require.NotNil(t, prompt.Player)
	assert.Equal(t, "Alice", prompt.Player.DisplayName)
	assert.Equal(t, country.ID, prompt.Player.CountryID)

	// player me reflects the assignment
	output, err = cli.runAs("telegram:100", "player", "me")
	require.NoError(t, err, "output: %s", output)
	var me playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, prompt.Player.ID, me.ID)

	// Statistics show the claim
	output, err = cli.runAs(adminIdentity, "game", "stats", game.ID)
	require.NoError(t, err, "output: %s", output)
	var stats statisticsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Equal(t, 1, stats.Countries)
	assert.Equal(t, 1, stats.AssignedCount)
	assert.Equal(t, 0, stats.SuggestedCount)
}

func TestCLI_AssignAndDetach(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.runAs(adminIdentity, "game", "create", "--name", "Test Game")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))

	output, err = cli.runAs(adminIdentity, "country", "create", game.ID, "--name", "Florin")
	require.NoError(t, err, "output: %s", output)
	var country countryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &country))

	// Admin assigns a player directly; the caller's own --identity stays in
	// effect for the request headers
	output, err = cli.runAs(adminIdentity, "player", "assign", "telegram:200",
		"--game", game.ID, "--country", country.ID, "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, country.ID, player.CountryID)
	assert.Equal(t, "telegram:200", player.Identity)

	// Admin detaches them again
	output, err = cli.runAs(adminIdentity, "player", "detach", "telegram:200")
	require.NoError(t, err, "output: %s", output)
	player = playerResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Empty(t, player.CountryID)

	// The country is available for someone else now
	output, err = cli.runAs(adminIdentity, "player", "assign", "telegram:300",
		"--game", game.ID, "--country", country.ID)
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_AdminEnforcement(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.runAs("telegram:999", "game", "create", "--name", "Nope")
	assert.Error(t, err, "non-admin should not be able to create games")
	assert.Contains(t, strings.ToLower(output), "forbidden")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No open game yet
	output, err := cli.runAs(adminIdentity, "game", "open")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "no")

	// Non-existent game
	output, err = cli.runAs(adminIdentity, "game", "get", "NOPE99")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
