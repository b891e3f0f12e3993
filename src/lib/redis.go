package lib

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a Redis client, or nil when the server is
// unreachable. The unread-count cache degrades to store reads without it.
func ConnectRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, unread-count cache disabled", "addr", addr, "error", err)
		return nil
	}
	return client
}
