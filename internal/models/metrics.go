package models

import (
	"time"
)

// WeatherInfo is the best-effort external condition snapshot folded into the
// metrics record. Empty when the weather service was unavailable.
type WeatherInfo struct {
	TemperatureC float64  `json:"temperature_c,omitempty"`
	Conditions   []string `json:"conditions,omitempty"`
	RainExpected bool     `json:"rain_expected,omitempty"`
	Fetched      bool     `json:"fetched"`
}

// MetricsRecord is one derived-metrics document (metrics table), one per
// pipeline invocation, append-only.
type MetricsRecord struct {
	MetricID     string      `json:"metric_id" db:"metric_id"`
	DeviceID     string      `json:"device_id" db:"device_id"`
	PHMean       float64     `json:"ph_moyenne_mobile" db:"ph_moyenne_mobile"`
	TempMean     float64     `json:"temp_moyenne_mobile" db:"temp_moyenne_mobile"`
	NiveauMean   float64     `json:"niveau_moyen_mobile" db:"niveau_moyen_mobile"`
	Trends       TrendSet    `json:"trends"`
	QualityIndex *int        `json:"quality_index,omitempty" db:"quality_index"` // nil when no window data
	Pompe        int         `json:"pompe" db:"pompe"`
	Mode         string      `json:"mode" db:"mode"`
	Weather      WeatherInfo `json:"weather"`
	Timestamp    time.Time   `json:"timestamp" db:"timestamp"`
}

// PerformanceRecord is the per-invocation latency telemetry
// (performance_metrics table).
type PerformanceRecord struct {
	RecordID     string    `json:"record_id" db:"record_id"`
	DeviceID     string    `json:"device_id" db:"device_id"`
	TotalMs      int64     `json:"total_execution_time_ms" db:"total_ms"`
	WeatherAPIMs int64     `json:"external_api_latency_ms" db:"weather_api_ms"` // 0 when not measured
	ActuationMs  int64     `json:"actuation_latency_ms" db:"actuation_ms"`      // 0 when not measured
	StoreWriteMs int64     `json:"store_write_latency_ms" db:"store_write_ms"`
	AlertCount   int       `json:"alert_count" db:"alert_count"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
}
