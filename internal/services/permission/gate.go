package permission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playbypost/statecraft/internal/model"
	"github.com/playbypost/statecraft/internal/storage"
)

// Config holds configuration for the permission gate
type Config struct {
	// OwnerIdentities are external identities treated as administrators even
	// without a player row, so a deployment owner can act before registering
	OwnerIdentities []model.Identity
}

// Gate resolves a caller's role before privileged operations execute. Every
// administrative handler consults it; role checks live nowhere else.
type Gate struct {
	storage storage.Storage
	logger  *slog.Logger
	cfg     Config
}

// New creates a new permission Gate
func New(storage storage.Storage, cfg Config, logger *slog.Logger) *Gate {
	return &Gate{
		storage: storage,
		logger:  logger,
		cfg:     cfg,
	}
}

// Resolve returns the caller's role. Unknown identities are plain players.
func (g *Gate) Resolve(ctx context.Context, identity model.Identity) (model.Role, error) {
	for _, owner := range g.cfg.OwnerIdentities {
		if owner == identity {
			return model.RoleAdmin, nil
		}
	}

	player, err := g.storage.FindPlayerByIdentity(ctx, identity)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return model.RolePlayer, nil
	}
	if err != nil {
		return "", err
	}
	return player.Role, nil
}

// RequireAdmin returns model.ErrForbidden unless the identity resolves to an
// administrator. Denials are logged.
func (g *Gate) RequireAdmin(ctx context.Context, identity model.Identity) error {
	role, err := g.Resolve(ctx, identity)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		g.logger.Warn("administrative action denied",
			slog.String("identity", string(identity)),
		)
		return model.ErrForbidden
	}
	return nil
}
