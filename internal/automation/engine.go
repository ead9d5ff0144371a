package automation

import (
	"context"
	"time"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actuation thresholds over the rolling means.
const (
	PumpNiveauBound = 20.0
	HeaterTempBound = 25.0
)

// Action descriptions recorded in the automation log.
const (
	ActionPumpOn   = "Pompe activée automatiquement"
	ActionHeaterOn = "Chauffage activé automatiquement"
)

// Engine is the automation decision engine. It only acts in AUTO mode;
// in MANUEL it is a pass-through regardless of readings.
type Engine struct {
	actuator Actuator
	logger   *zap.Logger
}

// NewEngine creates a decision engine over the given actuator.
func NewEngine(actuator Actuator, logger *zap.Logger) *Engine {
	return &Engine{
		actuator: actuator,
		logger:   logger,
	}
}

// Decide evaluates the automation rules against the current reading and
// rolling window, issues the actuation commands, and returns the fired
// actions plus the time spent on actuation writes. A failed write is logged
// and the action is still recorded: actuation is at-least-once, not
// exactly-once, and a lost command is recoverable on the next invocation.
func (e *Engine) Decide(ctx context.Context, reading *models.Reading, window models.AggregateWindow) ([]*models.AutomationAction, time.Duration) {
	if reading.Mode != models.ModeAuto {
		return nil, 0
	}
	if !window.HasData() {
		return nil, 0
	}

	var actions []*models.AutomationAction
	var actuationTime time.Duration

	if reading.Pompe == models.PumpOff && window.NiveauMean < PumpNiveauBound {
		start := time.Now()
		err := e.actuator.SetPump(ctx, reading.DeviceID, true)
		actuationTime += time.Since(start)

		if err != nil {
			e.logger.Error("Failed to actuate pump",
				zap.String("device_id", reading.DeviceID),
				zap.Error(err),
			)
		} else {
			e.logger.Info("Pump actuated",
				zap.String("device_id", reading.DeviceID),
				zap.Float64("niveau_mean", window.NiveauMean),
			)
		}

		actions = append(actions, e.buildAction(reading, ActionPumpOn))
	}

	if window.TempMean < HeaterTempBound {
		start := time.Now()
		err := e.actuator.SetHeater(ctx, reading.DeviceID, true)
		actuationTime += time.Since(start)

		if err != nil {
			e.logger.Error("Failed to actuate heater",
				zap.String("device_id", reading.DeviceID),
				zap.Error(err),
			)
		} else {
			e.logger.Info("Heater actuated",
				zap.String("device_id", reading.DeviceID),
				zap.Float64("temp_mean", window.TempMean),
			)
		}

		actions = append(actions, e.buildAction(reading, ActionHeaterOn))
	}

	return actions, actuationTime
}

func (e *Engine) buildAction(reading *models.Reading, description string) *models.AutomationAction {
	return &models.AutomationAction{
		ActionID:    uuid.New().String(),
		DeviceID:    reading.DeviceID,
		Description: description,
		TriggeringValues: models.SourceValues{
			Niveau:      reading.Niveau,
			PH:          reading.PH,
			Temperature: reading.Temperature,
			Pompe:       reading.Pompe,
		},
		Timestamp: time.Now(),
	}
}
