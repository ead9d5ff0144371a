package models

import (
	"time"
)

// Operating modes of the pool controller.
const (
	ModeAuto   = "AUTO"
	ModeManuel = "MANUEL"
)

// Pump states as transmitted by the device (0/1).
const (
	PumpOff = 0
	PumpOn  = 1
)

// RawReading is the payload of one device transmission. Pointer fields
// distinguish absent values from zero values; defaults are substituted
// during normalization.
type RawReading struct {
	Niveau      *float64 `json:"niveau,omitempty"`
	PH          *float64 `json:"ph,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Pompe       *int     `json:"pompe,omitempty"`
	Mode        *string  `json:"mode,omitempty"`
}

// IsEmpty reports whether the payload carries no fields at all.
// A structurally empty payload makes the whole invocation a no-op.
func (r *RawReading) IsEmpty() bool {
	return r == nil ||
		(r.Niveau == nil && r.PH == nil && r.Temperature == nil && r.Pompe == nil && r.Mode == nil)
}

// Reading is one normalized telemetry sample (validated_readings table).
// Immutable after normalization, persisted append-only.
type Reading struct {
	ReadingID   string    `json:"reading_id" db:"reading_id"`
	DeviceID    string    `json:"device_id" db:"device_id"`
	Niveau      float64   `json:"niveau" db:"niveau"`           // water level, 0-100 %
	PH          float64   `json:"ph" db:"ph"`                   // 0-14
	Temperature float64   `json:"temperature" db:"temperature"` // °C
	Pompe       int       `json:"pompe" db:"pompe"`             // 0 = off, 1 = on
	Mode        string    `json:"mode" db:"mode"`               // AUTO, MANUEL
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// AggregateWindow holds the moving averages over the most recent W readings.
// Derived fresh on every invocation, never stored on its own.
type AggregateWindow struct {
	PHMean     float64 `json:"ph_mean"`
	TempMean   float64 `json:"temp_mean"`
	NiveauMean float64 `json:"niveau_mean"`
	Count      int     `json:"count"`
}

// HasData reports whether the window contains any readings. Aggregate-dependent
// steps must short-circuit when it does not.
func (w AggregateWindow) HasData() bool {
	return w.Count > 0
}

// TrendSet carries the fixed-threshold trend labels derived from the window.
type TrendSet struct {
	PH          string `json:"tendance_ph"`          // Acide, Basique, OK
	Temperature string `json:"tendance_temperature"` // Trop chaud, Trop froid, OK
	Niveau      string `json:"tendance_niveau"`      // Niveau bas, OK
}
