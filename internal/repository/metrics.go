package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// MetricsRepository is the append-only derived-metrics log (metrics table),
// consumed by dashboards.
type MetricsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMetricsRepository creates the metrics repository.
func NewMetricsRepository(db *sql.DB, logger *zap.Logger) *MetricsRepository {
	return &MetricsRepository{
		db:     db,
		logger: logger,
	}
}

// CreateMetricsRecord appends one derived-metrics record.
func (r *MetricsRepository) CreateMetricsRecord(ctx context.Context, record *models.MetricsRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	if record.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	weatherInfo, err := json.Marshal(record.Weather)
	if err != nil {
		return fmt.Errorf("failed to marshal weather info: %w", err)
	}

	query := `
		INSERT INTO metrics (
			metric_id,
			device_id,
			ph_moyenne_mobile,
			temp_moyenne_mobile,
			niveau_moyen_mobile,
			tendance_ph,
			tendance_temperature,
			tendance_niveau,
			quality_index,
			pompe,
			mode,
			weather_info,
			timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.MetricID,
		record.DeviceID,
		record.PHMean,
		record.TempMean,
		record.NiveauMean,
		record.Trends.PH,
		record.Trends.Temperature,
		record.Trends.Niveau,
		record.QualityIndex,
		record.Pompe,
		record.Mode,
		weatherInfo,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics record: %w", err)
	}

	return nil
}

// GetLatestMetrics returns the most recent metrics records for a device,
// newest first.
func (r *MetricsRepository) GetLatestMetrics(ctx context.Context, deviceID string, limit int) ([]*models.MetricsRecord, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	query := `
		SELECT
			metric_id,
			device_id,
			ph_moyenne_mobile,
			temp_moyenne_mobile,
			niveau_moyen_mobile,
			tendance_ph,
			tendance_temperature,
			tendance_niveau,
			quality_index,
			pompe,
			mode,
			weather_info,
			timestamp
		FROM metrics
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	records := []*models.MetricsRecord{}
	for rows.Next() {
		var record models.MetricsRecord
		var qualityIndex sql.NullInt64
		var weatherInfo []byte
		err := rows.Scan(
			&record.MetricID,
			&record.DeviceID,
			&record.PHMean,
			&record.TempMean,
			&record.NiveauMean,
			&record.Trends.PH,
			&record.Trends.Temperature,
			&record.Trends.Niveau,
			&qualityIndex,
			&record.Pompe,
			&record.Mode,
			&weatherInfo,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics record: %w", err)
		}

		if qualityIndex.Valid {
			iqe := int(qualityIndex.Int64)
			record.QualityIndex = &iqe
		}
		if len(weatherInfo) > 0 {
			if err := json.Unmarshal(weatherInfo, &record.Weather); err != nil {
				return nil, fmt.Errorf("failed to unmarshal weather info: %w", err)
			}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metrics records: %w", err)
	}

	return records, nil
}
