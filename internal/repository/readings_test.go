package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockReadingDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReadingRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewReadingRepository(db, logger)

	return db, mock, repo
}

func TestCreateReading_Success(t *testing.T) {
	db, mock, repo := setupMockReadingDB(t)
	defer db.Close()

	reading := &models.Reading{
		ReadingID:   uuid.New().String(),
		DeviceID:    "pool-1",
		Niveau:      42,
		PH:          7.2,
		Temperature: 26,
		Pompe:       models.PumpOn,
		Mode:        models.ModeAuto,
		Timestamp:   time.Now(),
	}

	mock.ExpectExec(`INSERT INTO validated_readings`).
		WithArgs(reading.ReadingID, reading.DeviceID, reading.Niveau, reading.PH,
			reading.Temperature, reading.Pompe, reading.Mode, reading.Timestamp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateReading(context.Background(), reading)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReading_MissingDeviceID(t *testing.T) {
	db, mock, repo := setupMockReadingDB(t)
	defer db.Close()

	err := repo.CreateReading(context.Background(), &models.Reading{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "device_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentReadings_Success(t *testing.T) {
	db, mock, repo := setupMockReadingDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"reading_id", "device_id", "niveau", "ph", "temperature", "pompe", "mode", "timestamp",
	}).
		AddRow("r-2", "pool-1", 40.0, 7.1, 25.5, 1, "AUTO", now).
		AddRow("r-1", "pool-1", 45.0, 7.3, 25.0, 0, "AUTO", now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT`).
		WithArgs("pool-1", 20).
		WillReturnRows(rows)

	readings, err := repo.GetRecentReadings(context.Background(), "pool-1", 20)

	require.NoError(t, err)
	require.Len(t, readings, 2)
	// newest first
	assert.Equal(t, "r-2", readings[0].ReadingID)
	assert.Equal(t, 40.0, readings[0].Niveau)
	assert.Equal(t, "r-1", readings[1].ReadingID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentReadings_EmptyLog(t *testing.T) {
	db, mock, repo := setupMockReadingDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"reading_id", "device_id", "niveau", "ph", "temperature", "pompe", "mode", "timestamp",
	})

	mock.ExpectQuery(`SELECT`).
		WithArgs("pool-1", 20).
		WillReturnRows(rows)

	readings, err := repo.GetRecentReadings(context.Background(), "pool-1", 20)

	require.NoError(t, err)
	assert.Empty(t, readings)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentReadings_InvalidArgs(t *testing.T) {
	db, mock, repo := setupMockReadingDB(t)
	defer db.Close()

	_, err := repo.GetRecentReadings(context.Background(), "", 20)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "device_id is required")

	_, err = repo.GetRecentReadings(context.Background(), "pool-1", 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be positive")

	require.NoError(t, mock.ExpectationsWereMet())
}
