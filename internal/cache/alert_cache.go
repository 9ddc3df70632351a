package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/config"
	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	restockAlertsKeyPrefix = "inventory:restock_alerts"
	alertsScanBatchSize    = 100
)

// AlertCache is a best-effort read cache for the restock-alert view, keyed
// by velocity filter. It is invalidated wholesale after every recompute.
type AlertCache interface {
	GetAlerts(ctx context.Context, velocity string) ([]domain.RestockAlert, bool, error)
	SetAlerts(ctx context.Context, velocity string, alerts []domain.RestockAlert) error
	InvalidateAll(ctx context.Context) error
}

type redisAlertCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAlertCache struct{}

func NewAlertCache(cfg config.CacheConfig) (AlertCache, error) {
	if !cfg.Enabled {
		return &noopAlertCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAlertCache{client: client, ttl: ttl}, nil
}

func NewNoopAlertCache() AlertCache {
	return &noopAlertCache{}
}

func (c *redisAlertCache) GetAlerts(ctx context.Context, velocity string) ([]domain.RestockAlert, bool, error) {
	payload, err := c.client.Get(ctx, buildAlertsKey(velocity)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var alerts []domain.RestockAlert
	if err := json.Unmarshal(payload, &alerts); err != nil {
		return nil, false, fmt.Errorf("decode restock alerts cache: %w", err)
	}
	return alerts, true, nil
}

func (c *redisAlertCache) SetAlerts(ctx context.Context, velocity string, alerts []domain.RestockAlert) error {
	payload, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode restock alerts cache: %w", err)
	}

	if err := c.client.Set(ctx, buildAlertsKey(velocity), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAlertCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, restockAlertsKeyPrefix, alertsScanBatchSize)
}

func buildAlertsKey(velocity string) string {
	if velocity == "" {
		velocity = "all"
	}
	return fmt.Sprintf("%s:%s", restockAlertsKeyPrefix, velocity)
}

func (n *noopAlertCache) GetAlerts(ctx context.Context, velocity string) ([]domain.RestockAlert, bool, error) {
	return nil, false, nil
}

func (n *noopAlertCache) SetAlerts(ctx context.Context, velocity string, alerts []domain.RestockAlert) error {
	return nil
}

func (n *noopAlertCache) InvalidateAll(ctx context.Context) error {
	return nil
}
