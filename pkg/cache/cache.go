// Package cache stores computed plan results and rendered artifacts.
//
// Backends implement [Cache]: [FileCache] for CLI use, [RedisCache] for
// shared deployments of the HTTP API, and [NullCache] to disable caching.
// Keys come from a [Keyer] so that every caller derives identical keys for
// identical inputs.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
// A ttl of zero means the entry never expires.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
