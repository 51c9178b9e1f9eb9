package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot holds one guest's cart record under a per-guest key. Used by
// backend-for-frontend deployments where the browser only carries the guest
// ID and the cart body lives server-side.
type RedisSlot struct {
	client *redis.Client
	key    string
}

func NewRedisSlot(client *redis.Client, guestID string) *RedisSlot {
	return &RedisSlot{
		client: client,
		key:    slotKey(guestID),
	}
}

func (r *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisSlot) Write(ctx context.Context, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSlot) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisSlots hands out per-guest slots over one shared client and supports
// resetting a guest's cart by ID, which the checkout consumer needs.
type RedisSlots struct {
	client *redis.Client
}

func NewRedisSlots(client *redis.Client) *RedisSlots {
	return &RedisSlots{client: client}
}

func (r *RedisSlots) Slot(guestID string) *RedisSlot {
	return NewRedisSlot(r.client, guestID)
}

func (r *RedisSlots) Reset(ctx context.Context, guestID string) error {
	if err := r.client.Del(ctx, slotKey(guestID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func slotKey(guestID string) string {
	return fmt.Sprintf("guest_cart:%s", guestID)
}
