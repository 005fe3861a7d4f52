// Package cache stores rendered solve results so repeated exercises are
// answered without re-solving.
package cache

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/njchilds90/gosolve/internal/config"
)

// ErrNotFound is returned by Get on a miss or an expired entry.
var ErrNotFound = errors.New("cache: entry not found")

// Cache is a byte store keyed by Key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// namespace scopes cache keys; the same request always maps to the same key.
var namespace = uuid.MustParse("6f1c3a0e-2b7d-5c48-9e21-4d3f8a6b0c17")

// Key derives a stable key from the operation and its inputs.
func Key(op string, parts ...string) string {
	data := op + "\x00" + strings.Join(parts, "\x00")
	return op + ":" + uuid.NewSHA1(namespace, []byte(data)).String()
}

// FromConfig returns a Redis cache when an address is configured and
// reachable, and an in-process cache otherwise.
func FromConfig(ctx context.Context, cfg *config.Config) (Cache, error) {
	ttl := cfg.GetCacheTTL()
	if cfg.Cache.RedisAddr == "" {
		return NewMemory(ttl, cfg.Cache.MaxEntries), nil
	}
	r := NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, WithTTL(ttl))
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
