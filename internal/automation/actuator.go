package automation

import (
	"context"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/mqtt"
)

// Actuator writes corrective commands to the device control channels.
// Writes are at-least-once; re-issuing ON to an already-ON device is safe.
type Actuator interface {
	SetPump(ctx context.Context, deviceID string, on bool) error
	SetHeater(ctx context.Context, deviceID string, on bool) error
}

// MQTTActuator publishes retained boolean commands on the per-device
// pump and heater topics.
type MQTTActuator struct {
	config *config.MQTTConfig
	client *mqtt.Client
}

// NewMQTTActuator creates an actuator over the broker connection.
func NewMQTTActuator(cfg *config.MQTTConfig, client *mqtt.Client) *MQTTActuator {
	return &MQTTActuator{
		config: cfg,
		client: client,
	}
}

// SetPump writes the desired pump state.
func (a *MQTTActuator) SetPump(ctx context.Context, deviceID string, on bool) error {
	topic := fmt.Sprintf(a.config.PumpTopicFormat, deviceID)
	return a.publishBool(topic, on)
}

// SetHeater writes the desired heater state.
func (a *MQTTActuator) SetHeater(ctx context.Context, deviceID string, on bool) error {
	topic := fmt.Sprintf(a.config.HeaterTopicFormat, deviceID)
	return a.publishBool(topic, on)
}

func (a *MQTTActuator) publishBool(topic string, on bool) error {
	payload := []byte("0")
	if on {
		payload = []byte("1")
	}
	// retained so the device picks up the last commanded state on reconnect
	return a.client.Publish(topic, a.config.QoS, true, payload)
}
