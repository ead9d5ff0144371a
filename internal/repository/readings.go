package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// ReadingRepository is the append-only store of validated readings
// (validated_readings table). Rows are never updated or deleted.
type ReadingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReadingRepository creates the reading repository.
func NewReadingRepository(db *sql.DB, logger *zap.Logger) *ReadingRepository {
	return &ReadingRepository{
		db:     db,
		logger: logger,
	}
}

// CreateReading appends one normalized reading.
func (r *ReadingRepository) CreateReading(ctx context.Context, reading *models.Reading) error {
	if reading == nil {
		return fmt.Errorf("reading is required")
	}
	if reading.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	query := `
		INSERT INTO validated_readings (
			reading_id,
			device_id,
			niveau,
			ph,
			temperature,
			pompe,
			mode,
			timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		reading.ReadingID,
		reading.DeviceID,
		reading.Niveau,
		reading.PH,
		reading.Temperature,
		reading.Pompe,
		reading.Mode,
		reading.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}

	return nil
}

// GetRecentReadings returns the most recent readings for a device, newest
// first, limited to the rolling-window size.
func (r *ReadingRepository) GetRecentReadings(ctx context.Context, deviceID string, limit int) ([]*models.Reading, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	query := `
		SELECT
			reading_id,
			device_id,
			niveau,
			ph,
			temperature,
			pompe,
			mode,
			timestamp
		FROM validated_readings
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent readings: %w", err)
	}
	defer rows.Close()

	readings := []*models.Reading{}
	for rows.Next() {
		var reading models.Reading
		err := rows.Scan(
			&reading.ReadingID,
			&reading.DeviceID,
			&reading.Niveau,
			&reading.PH,
			&reading.Temperature,
			&reading.Pompe,
			&reading.Mode,
			&reading.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, &reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}
