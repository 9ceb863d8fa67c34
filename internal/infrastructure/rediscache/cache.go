package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/redis/go-redis/v9"
)

// NewClient connects and verifies the connection with a ping.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Pinger adapts a redis client to the health checker's Pinger interface.
type Pinger struct {
	Client *redis.Client
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

// NotificationCache stores rendered login payloads per user with a TTL
// matching the private cache window of the endpoint.
type NotificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationCache(client *redis.Client, ttl time.Duration) *NotificationCache {
	return &NotificationCache{client: client, ttl: ttl}
}

func key(userID string) string { return "notif:login:" + userID }

// Get returns (nil, nil) on a cache miss.
func (c *NotificationCache) Get(ctx context.Context, userID string) (*domain.LoginPayload, error) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var p domain.LoginPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &p, nil
}

func (c *NotificationCache) Set(ctx context.Context, userID string, p domain.LoginPayload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
