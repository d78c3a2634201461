// Package ratelimit throttles the public auth endpoints per client.
package ratelimit

import (
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/redis/go-redis/v9"
)

// NewRedisStore counts requests in Redis so that every replica shares the
// limit. Redis errors let the request through.
func NewRedisStore(client redis.UniversalClient, limit int, window time.Duration) rateli.Store {
	return rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: client,
		Rate:        window,
		Limit:       uint(limit),
		PanicOnErr:  false,
	})
}
