package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SnapshotCache keeps the latest normalized reading and the active alerts of
// each device in Redis for dashboard consumers. Updates are best-effort; a
// cache failure never affects the persisted logs.
type SnapshotCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewSnapshotCache creates the snapshot cache.
func NewSnapshotCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (c *SnapshotCache) realtimeKey(deviceID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Pipeline.Cache.RealtimeKeyPrefix,
		deviceID,
		c.config.Pipeline.Cache.RealtimeSuffix,
	)
}

func (c *SnapshotCache) alertKey(deviceID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Pipeline.Cache.RealtimeKeyPrefix,
		deviceID,
		c.config.Pipeline.Cache.AlertSuffix,
	)
}

// UpdateRealtimeSnapshot stores the latest normalized reading.
func (c *SnapshotCache) UpdateRealtimeSnapshot(ctx context.Context, reading *models.Reading) error {
	jsonData, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := c.redisClient.Set(ctx, c.realtimeKey(reading.DeviceID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to set realtime snapshot: %w", err)
	}

	return nil
}

// GetRealtimeSnapshot returns the latest normalized reading for a device.
func (c *SnapshotCache) GetRealtimeSnapshot(ctx context.Context, deviceID string) (*models.Reading, error) {
	val, err := c.redisClient.Get(ctx, c.realtimeKey(deviceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("realtime snapshot not found for device: %s", deviceID)
		}
		return nil, fmt.Errorf("failed to get realtime snapshot: %w", err)
	}

	var reading models.Reading
	if err := json.Unmarshal([]byte(val), &reading); err != nil {
		return nil, fmt.Errorf("failed to unmarshal realtime snapshot: %w", err)
	}

	return &reading, nil
}

// UpdateAlertCache stores the alerts fired by the current invocation, with a
// TTL so stale alerts expire on their own.
func (c *SnapshotCache) UpdateAlertCache(ctx context.Context, deviceID string, alerts []*models.Alert) error {
	jsonData, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alerts: %w", err)
	}

	ttl := time.Duration(c.config.Pipeline.Cache.AlertTTL) * time.Second
	if err := c.redisClient.Set(ctx, c.alertKey(deviceID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set alert cache: %w", err)
	}

	c.logger.Debug("Updated alert cache",
		zap.String("device_id", deviceID),
		zap.Int("alert_count", len(alerts)),
	)

	return nil
}

// GetActiveAlerts returns the cached alerts for a device, if any.
func (c *SnapshotCache) GetActiveAlerts(ctx context.Context, deviceID string) ([]*models.Alert, error) {
	val, err := c.redisClient.Get(ctx, c.alertKey(deviceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert cache: %w", err)
	}

	var alerts []*models.Alert
	if err := json.Unmarshal([]byte(val), &alerts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert cache: %w", err)
	}

	return alerts, nil
}
