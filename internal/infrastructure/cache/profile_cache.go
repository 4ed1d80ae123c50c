package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/pkg/helpers"
)

// versionKeep is how many TTLs a version counter outlives the entry it guards.
const versionKeep = 4

// ProfileCache keeps lookup-by-id projections in Redis as JSON, guarded by a
// per-user version counter bumped on every invalidation.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

func versionKey(userID string) string {
	return "user:profile:ver:" + userID
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*entity.Profile, bool, error) {
	var p entity.Profile
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, profileKey(userID), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *ProfileCache) Version(ctx context.Context, userID string) (int64, error) {
	return helpers.RedisVersion(ctx, c.rdb, versionKey(userID))
}

// Set is a no-op when the user was invalidated after version was read.
func (c *ProfileCache) Set(ctx context.Context, userID string, p entity.Profile, version int64) error {
	_, err := helpers.RedisSetJSONIfVersion(ctx, c.rdb, profileKey(userID), versionKey(userID), p, version, c.ttl)
	return err
}

func (c *ProfileCache) Delete(ctx context.Context, userID string) error {
	return helpers.RedisInvalidate(ctx, c.rdb, profileKey(userID), versionKey(userID), versionKeep*c.ttl)
}
