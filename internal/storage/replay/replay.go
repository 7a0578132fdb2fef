// Package replay remembers which gateway payment ids were already turned into rentals.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "payment:"

// RedisGuard claims payment ids with SET NX so a verified payment grants one rental.
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("replay.NewRedisClient: %w", err)
	}
	return client, nil
}

// Claim returns true the first time paymentID is seen within ttl. A zero ttl never expires the claim.
func (g *RedisGuard) Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+paymentID, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay.RedisGuard.Claim: %w", err)
	}
	return ok, nil
}

// Release forgets a claim, used when granting the rental failed after claiming.
func (g *RedisGuard) Release(ctx context.Context, paymentID string) error {
	return g.client.Del(ctx, keyPrefix+paymentID).Err()
}

// NopGuard accepts every payment. It is used when no Redis address is configured.
type NopGuard struct{}

func (NopGuard) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (NopGuard) Release(context.Context, string) error { return nil }
