package characters

import (
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/brp-sheet/internal/records"
)

// NewRedis creates a new Redis-backed character repository
func NewRedis(client redis.UniversalClient, reg *records.Registry) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:   client,
		Registry: reg,
	})
}
