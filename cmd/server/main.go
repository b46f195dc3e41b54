package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/playbypost/statecraft/internal/api"
	"github.com/playbypost/statecraft/internal/factory"
	"github.com/playbypost/statecraft/internal/model"
	redisstorage "github.com/playbypost/statecraft/internal/storage/redis"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:          logger,
		StorageType:     os.Getenv("STATECRAFT_STORAGE"),
		OwnerIdentities: parseOwners(os.Getenv("STATECRAFT_OWNER_IDS")),
		ConfirmToken:    os.Getenv("STATECRAFT_CONFIRM_TOKEN"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("STATECRAFT_REDIS_URL")
		if redisURL == "" {
			logger.Error("STATECRAFT_REDIS_URL required when STATECRAFT_STORAGE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AdapterToken:       os.Getenv("STATECRAFT_ADAPTER_TOKEN"),
		CampaignController: app.CampaignController,
		AssignmentEngine:   app.AssignmentEngine,
		Registration:       app.Registration,
		PermissionGate:     app.PermissionGate,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("STATECRAFT_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid STATECRAFT_PORT", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// parseOwners splits a comma-separated identity list
func parseOwners(raw string) []model.Identity {
	if raw == "" {
		return nil
	}
	var owners []model.Identity
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			owners = append(owners, model.Identity(part))
		}
	}
	return owners
}
