package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// PerformanceRepository is the append-only pipeline latency log
// (performance_metrics table), one record per invocation.
type PerformanceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPerformanceRepository creates the performance repository.
func NewPerformanceRepository(db *sql.DB, logger *zap.Logger) *PerformanceRepository {
	return &PerformanceRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePerformanceRecord appends one latency record.
func (r *PerformanceRepository) CreatePerformanceRecord(ctx context.Context, record *models.PerformanceRecord) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	if record.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	query := `
		INSERT INTO performance_metrics (
			record_id,
			device_id,
			total_ms,
			weather_api_ms,
			actuation_ms,
			store_write_ms,
			alert_count,
			timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.RecordID,
		record.DeviceID,
		record.TotalMs,
		record.WeatherAPIMs,
		record.ActuationMs,
		record.StoreWriteMs,
		record.AlertCount,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create performance record: %w", err)
	}

	return nil
}
