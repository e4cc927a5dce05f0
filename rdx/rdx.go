package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// SetJSON marshals val and stores it under key with a TTL.
func SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return Conn.Set(ctx, key, data, ttl).Err()
}

// GetJSON loads key into dest. The bool is false when the key is absent.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := Conn.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

// Incr bumps a counter and returns the new value.
func Incr(ctx context.Context, key string) (int64, error) {
	return Conn.Incr(ctx, key).Result()
}

// GetInt64 reads a counter; absent keys read as zero.
func GetInt64(ctx context.Context, key string) (int64, error) {
	v, err := Conn.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func Del(ctx context.Context, keys ...string) error {
	return Conn.Del(ctx, keys...).Err()
}
