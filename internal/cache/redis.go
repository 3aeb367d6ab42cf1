package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/seatbooking/config"
	"github.com/Domenick1991/seatbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetSearch returns nil, nil on a cache miss.
func (c *RedisCache) GetSearch(ctx context.Context, origin, destination domain.AirportCode) ([]domain.FlightSummary, error) {
	data, err := c.client.Get(ctx, searchKey(origin, destination)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.FlightSummary
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, origin, destination domain.AirportCode, flights []domain.FlightSummary) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(origin, destination), payload, c.searchTTL).Err()
}

func (c *RedisCache) InvalidateSearch(ctx context.Context, origin, destination domain.AirportCode) error {
	return c.client.Del(ctx, searchKey(origin, destination)).Err()
}

func searchKey(origin, destination domain.AirportCode) string {
	return fmt.Sprintf("cache:flights:search:%s:%s", origin, destination)
}
