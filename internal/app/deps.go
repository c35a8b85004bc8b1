package app

import (
	"context"
	"time"

	"github.com/liketagger/backend/internal/config"
	"github.com/liketagger/backend/internal/db"
	"github.com/liketagger/backend/internal/handlers"
	"github.com/liketagger/backend/internal/middleware"
	"github.com/liketagger/backend/internal/repositories"
	"github.com/liketagger/backend/internal/snapshot"
	"github.com/liketagger/backend/internal/storage"
)

// limiterTTL is how long an idle client's bucket is kept.
const limiterTTL = 10 * time.Minute

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(pool db.Pool, cfg config.Config) handlers.Dependencies {
	return handlers.Dependencies{
		Store:       repositories.NewPostgresStore(pool),
		Health:      pool,
		Limiter:     middleware.NewClientRateLimiter(cfg.RateLimit, cfg.RateBurst, limiterTTL),
		MaxPageSize: cfg.MaxPageSize,
	}
}

func buildExporter(ctx context.Context, cfg config.Config, source snapshot.Source) (*snapshot.Exporter, error) {
	objectStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return nil, err
	}
	return &snapshot.Exporter{
		Source:  source,
		Storage: objectStore,
		Prefix:  cfg.ObjectStore.Prefix,
	}, nil
}
