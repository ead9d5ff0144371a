package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *SnapshotCache) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cfg := &config.Config{}
	cfg.Pipeline.Cache.RealtimeKeyPrefix = "smartpool:device:"
	cfg.Pipeline.Cache.RealtimeSuffix = ":realtime"
	cfg.Pipeline.Cache.AlertSuffix = ":alerts"
	cfg.Pipeline.Cache.AlertTTL = 60

	logger := zap.NewNop()
	snapshotCache := NewSnapshotCache(cfg, redisClient, logger)

	return mr, snapshotCache
}

func TestSnapshotCache_RealtimeRoundTrip(t *testing.T) {
	_, snapshotCache := setupTestCache(t)

	reading := &models.Reading{
		ReadingID:   "r-1",
		DeviceID:    "pool-1",
		Niveau:      42,
		PH:          7.2,
		Temperature: 26,
		Pompe:       models.PumpOn,
		Mode:        models.ModeAuto,
		Timestamp:   time.Now(),
	}

	ctx := context.Background()
	err := snapshotCache.UpdateRealtimeSnapshot(ctx, reading)
	require.NoError(t, err)

	got, err := snapshotCache.GetRealtimeSnapshot(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", got.ReadingID)
	assert.Equal(t, 42.0, got.Niveau)
	assert.Equal(t, models.ModeAuto, got.Mode)
}

func TestSnapshotCache_RealtimeNotFound(t *testing.T) {
	_, snapshotCache := setupTestCache(t)

	_, err := snapshotCache.GetRealtimeSnapshot(context.Background(), "pool-missing")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "realtime snapshot not found")
}

func TestSnapshotCache_AlertCacheRoundTrip(t *testing.T) {
	mr, snapshotCache := setupTestCache(t)

	alerts := []*models.Alert{
		{AlertID: "a-1", DeviceID: "pool-1", Message: "Pompe en panne !", Severity: models.SeverityHigh},
		{AlertID: "a-2", DeviceID: "pool-1", Message: "Alerte chimique !", Severity: models.SeverityMedium},
	}

	ctx := context.Background()
	err := snapshotCache.UpdateAlertCache(ctx, "pool-1", alerts)
	require.NoError(t, err)

	got, err := snapshotCache.GetActiveAlerts(ctx, "pool-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a-1", got[0].AlertID)

	// alerts expire after the TTL
	mr.FastForward(61 * time.Second)
	got, err = snapshotCache.GetActiveAlerts(ctx, "pool-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_NoActiveAlerts(t *testing.T) {
	_, snapshotCache := setupTestCache(t)

	got, err := snapshotCache.GetActiveAlerts(context.Background(), "pool-1")

	require.NoError(t, err)
	assert.Nil(t, got)
}
