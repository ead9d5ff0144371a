package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"
	"github.com/fatma123m/SmartPool/internal/mqtt"

	"go.uber.org/zap"
)

// Pipeline runs one processing invocation per incoming reading.
type Pipeline interface {
	Run(ctx context.Context, deviceID string, raw *models.RawReading) error
}

// Consumer subscribes to the per-device telemetry topic and triggers one
// pipeline invocation per transmission. Invocations for distinct events may
// run concurrently; no ordering is guaranteed between them.
type Consumer struct {
	config   *config.Config
	client   *mqtt.Client
	pipeline Pipeline
	logger   *zap.Logger
}

// NewConsumer creates a telemetry consumer.
func NewConsumer(cfg *config.Config, client *mqtt.Client, pipeline Pipeline, logger *zap.Logger) *Consumer {
	return &Consumer{
		config:   cfg,
		client:   client,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Start subscribes to the telemetry topic. Message handling runs until the
// context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	topic := c.config.MQTT.TelemetryTopic

	err := c.client.Subscribe(topic, c.config.MQTT.QoS, func(topic string, payload []byte) error {
		c.handleMessage(ctx, topic, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}

	c.logger.Info("Telemetry consumer started",
		zap.String("topic", topic),
	)

	return nil
}

// Stop unsubscribes from the telemetry topic.
func (c *Consumer) Stop() error {
	return c.client.Unsubscribe(c.config.MQTT.TelemetryTopic)
}

func (c *Consumer) handleMessage(ctx context.Context, topic string, payload []byte) {
	deviceID, err := DeviceIDFromTopic(topic)
	if err != nil {
		c.logger.Warn("Ignoring message on unexpected topic",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}

	raw, err := ParsePayload(payload)
	if err != nil {
		// malformed input is a silent no-op, not a surfaced error
		c.logger.Debug("Ignoring malformed telemetry payload",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return
	}

	// each transmission gets its own independent invocation
	go func() {
		if err := c.pipeline.Run(ctx, deviceID, raw); err != nil {
			c.logger.Error("Pipeline invocation failed",
				zap.String("device_id", deviceID),
				zap.Error(err),
			)
		}
	}()
}

// DeviceIDFromTopic extracts the device ID segment from a telemetry topic
// of the form "smartpool/{deviceID}/telemetry".
func DeviceIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] == "" {
		return "", fmt.Errorf("unexpected telemetry topic: %s", topic)
	}
	return parts[1], nil
}

// ParsePayload decodes a raw telemetry JSON payload.
func ParsePayload(payload []byte) (*models.RawReading, error) {
	var raw models.RawReading
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal telemetry payload: %w", err)
	}
	return &raw, nil
}
