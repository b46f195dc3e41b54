package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/playbypost/statecraft/internal/dependencies/clock"
	"github.com/playbypost/statecraft/internal/dependencies/random"
	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/services/assignment"
	"github.com/playbypost/statecraft/internal/services/campaign"
	"github.com/playbypost/statecraft/internal/services/permission"
	"github.com/playbypost/statecraft/internal/services/registration"
	"github.com/playbypost/statecraft/internal/storage"
	"github.com/playbypost/statecraft/internal/storage/memory"
	redisstorage "github.com/playbypost/statecraft/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CampaignController *campaign.Controller
	AssignmentEngine   *assignment.Engine
	Registration       *registration.Workflow
	PermissionGate     *permission.Gate
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// OwnerIdentities are identities that always resolve to the admin role
	OwnerIdentities []model.Identity
	// ConfirmToken overrides the re-registration confirmation phrase (optional)
	ConfirmToken string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return NewWithDependencies(store, clk, rnd, cfg, logger), nil
}

// NewWithDependencies creates an App with the given dependencies (useful for testing)
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	campaignController := campaign.NewController(store, clk, rnd, logger)
	engine := assignment.New(store, clk, rnd, assignment.Config{OwnerIdentities: cfg.OwnerIdentities}, logger)
	workflow := registration.New(store, engine, campaignController, clk, registration.Config{ConfirmToken: cfg.ConfirmToken}, logger)
	gate := permission.New(store, permission.Config{OwnerIdentities: cfg.OwnerIdentities}, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		CampaignController: campaignController,
		AssignmentEngine:   engine,
		Registration:       workflow,
		PermissionGate:     gate,
	}
}
