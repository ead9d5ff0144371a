package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// AlertRepository is the append-only alert log (alerts table). Entries are
// immutable; they are never mutated or deleted by the pipeline.
type AlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertRepository creates the alert repository.
func NewAlertRepository(db *sql.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAlert appends one fired alert.
func (r *AlertRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if alert == nil {
		return fmt.Errorf("alert is required")
	}
	if alert.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	sourceValues, err := json.Marshal(alert.SourceValues)
	if err != nil {
		return fmt.Errorf("failed to marshal source values: %w", err)
	}

	query := `
		INSERT INTO alerts (
			alert_id,
			device_id,
			message,
			severity,
			source_values,
			email_to,
			status,
			timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		alert.AlertID,
		alert.DeviceID,
		alert.Message,
		alert.Severity,
		sourceValues,
		alert.EmailTo,
		alert.Status,
		alert.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// GetRecentAlerts returns the most recent alerts for a device, newest first.
func (r *AlertRepository) GetRecentAlerts(ctx context.Context, deviceID string, limit int) ([]*models.Alert, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	query := `
		SELECT
			alert_id,
			device_id,
			message,
			severity,
			source_values,
			email_to,
			status,
			timestamp
		FROM alerts
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	defer rows.Close()

	alerts := []*models.Alert{}
	for rows.Next() {
		var alert models.Alert
		var sourceValues []byte
		err := rows.Scan(
			&alert.AlertID,
			&alert.DeviceID,
			&alert.Message,
			&alert.Severity,
			&sourceValues,
			&alert.EmailTo,
			&alert.Status,
			&alert.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		if len(sourceValues) > 0 {
			if err := json.Unmarshal(sourceValues, &alert.SourceValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal source values: %w", err)
			}
		}

		alerts = append(alerts, &alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}
