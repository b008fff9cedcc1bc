package redis

import (
	"sync"

	redisv9 "github.com/redis/go-redis/v9"

	"weather-agent/internal/config"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the shared Redis client used for the geocoding cache.
func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr: config.GetRedisAddr(),
			DB:   config.GetRedisDB(),
		})
	})
	return client
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}
