package ingest

import (
	"time"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/google/uuid"
)

// Defaults substituted for absent fields during normalization.
const (
	DefaultNiveau      = 0.0
	DefaultPH          = 7.0
	DefaultTemperature = 25.0
	DefaultPompe       = models.PumpOff
	DefaultMode        = models.ModeAuto
)

// Normalize coerces a raw device payload into a fully-populated Reading.
// Returns ok=false for a structurally empty payload, in which case the
// whole pipeline invocation is a no-op rather than an error.
func Normalize(deviceID string, raw *models.RawReading) (*models.Reading, bool) {
	if raw.IsEmpty() {
		return nil, false
	}

	reading := &models.Reading{
		ReadingID:   uuid.New().String(),
		DeviceID:    deviceID,
		Niveau:      DefaultNiveau,
		PH:          DefaultPH,
		Temperature: DefaultTemperature,
		Pompe:       DefaultPompe,
		Mode:        DefaultMode,
		Timestamp:   time.Now(),
	}

	if raw.Niveau != nil {
		reading.Niveau = *raw.Niveau
	}
	if raw.PH != nil {
		reading.PH = *raw.PH
	}
	if raw.Temperature != nil {
		reading.Temperature = *raw.Temperature
	}
	if raw.Pompe != nil {
		reading.Pompe = *raw.Pompe
	}
	if raw.Mode != nil && (*raw.Mode == models.ModeAuto || *raw.Mode == models.ModeManuel) {
		reading.Mode = *raw.Mode
	}

	return reading, true
}
