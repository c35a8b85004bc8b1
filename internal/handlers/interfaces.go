package handlers

import (
	"context"

	"github.com/liketagger/backend/internal/repositories"
)

// Store hands out a catalog bound to one caller's credential.
type Store interface {
	Scope(credential string) repositories.Catalog
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RateLimiter is the minimal interface required to guard the API.
type RateLimiter interface {
	Allow(key string) bool
}
