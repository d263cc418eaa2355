package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/carematch/pkg/logger"
)

// RedisClient is the subset of redis.UniversalClient used by RoleCache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RoleCache decorates a RoleResolver with a Redis read-through cache.
// Roles never change after sign-up, so entries only expire by TTL.
// Redis failures are logged and the lookup falls through to the source.
type RoleCache struct {
	next   RoleResolver
	client RedisClient
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// RoleCacheOption configures RoleCache.
type RoleCacheOption func(*RoleCache)

// WithCacheTTL sets the entry lifetime. Default is one hour.
func WithCacheTTL(ttl time.Duration) RoleCacheOption {
	return func(c *RoleCache) {
		c.ttl = ttl
	}
}

// WithCachePrefix sets the key prefix. Default is "carematch:role:".
func WithCachePrefix(prefix string) RoleCacheOption {
	return func(c *RoleCache) {
		c.prefix = prefix
	}
}

// WithCacheLogger sets the logger used for Redis failures.
func WithCacheLogger(log *slog.Logger) RoleCacheOption {
	return func(c *RoleCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRoleCache wraps next with a cache stored in client.
func NewRoleCache(next RoleResolver, client RedisClient, opts ...RoleCacheOption) *RoleCache {
	c := &RoleCache{
		next:   next,
		client: client,
		ttl:    time.Hour,
		prefix: "carematch:role:",
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RoleCache) Role(ctx context.Context, id uuid.UUID) (Role, error) {
	key := c.key(id)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if role, perr := ParseRole(cached); perr == nil {
			return role, nil
		}
		c.log.WarnContext(ctx, "dropping malformed cached role",
			logger.Component("role_cache"),
			logger.UserID(id),
		)
	case !errors.Is(err, redis.Nil):
		c.log.WarnContext(ctx, "role cache read failed",
			logger.Component("role_cache"),
			logger.UserID(id),
			logger.Error(err),
		)
	}

	role, err := c.next.Role(ctx, id)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, role.String(), c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "role cache write failed",
			logger.Component("role_cache"),
			logger.UserID(id),
			logger.Error(err),
		)
	}
	return role, nil
}

// Invalidate removes the cached role of id.
func (c *RoleCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return errors.Join(ErrRoleCacheFailed, err)
	}
	return nil
}

func (c *RoleCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}
