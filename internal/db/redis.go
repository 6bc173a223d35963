package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis connection instance, used for server-side sessions.
var RedisClient *redis.Client

// ConnectRedis initializes the Redis connection.
func ConnectRedis(addr, password string) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	fmt.Println("✅ Connected to Redis")
	RedisClient = client
}
