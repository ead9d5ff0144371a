package models

import (
	"time"
)

// Alert severities.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
)

// Alert dispatch statuses (alerts table, status column).
const (
	AlertStatusSent   = "envoyée"
	AlertStatusFailed = "échec"
)

// Alert is one fired alert rule (alerts table). Persisted as an immutable
// log entry, never mutated or deleted by the pipeline.
type Alert struct {
	AlertID      string       `json:"alert_id" db:"alert_id"`
	DeviceID     string       `json:"device_id" db:"device_id"`
	Message      string       `json:"message" db:"message"`
	Severity     string       `json:"severity" db:"severity"` // HIGH, MEDIUM
	SourceValues SourceValues `json:"source_values" db:"source_values"`
	EmailTo      string       `json:"email_to,omitempty" db:"email_to"`
	Status       string       `json:"status,omitempty" db:"status"` // envoyée, échec
	Timestamp    time.Time    `json:"timestamp" db:"timestamp"`
}

// SourceValues is the raw-reading snapshot attached to alerts and
// automation actions (JSONB).
type SourceValues struct {
	Niveau      float64 `json:"niveau"`
	PH          float64 `json:"ph"`
	Temperature float64 `json:"temperature"`
	Pompe       int     `json:"pompe"`
}

// AutomationAction is one corrective actuation taken in AUTO mode
// (automation_logs table).
type AutomationAction struct {
	ActionID         string       `json:"action_id" db:"action_id"`
	DeviceID         string       `json:"device_id" db:"device_id"`
	Description      string       `json:"description" db:"description"`
	TriggeringValues SourceValues `json:"triggering_values" db:"triggering_values"`
	Timestamp        time.Time    `json:"timestamp" db:"timestamp"`
}
