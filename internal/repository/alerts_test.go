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

func setupMockAlertDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AlertRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewAlertRepository(db, logger)

	return db, mock, repo
}

func TestCreateAlert_Success(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	alert := &models.Alert{
		AlertID:  uuid.New().String(),
		DeviceID: "pool-1",
		Message:  "Pompe en panne !",
		Severity: models.SeverityHigh,
		SourceValues: models.SourceValues{
			Niveau:      5,
			PH:          7,
			Temperature: 25,
			Pompe:       0,
		},
		EmailTo:   "owner@example.com",
		Status:    models.AlertStatusSent,
		Timestamp: time.Now(),
	}

	mock.ExpectExec(`INSERT INTO alerts`).
		WithArgs(alert.AlertID, alert.DeviceID, alert.Message, alert.Severity,
			sqlmock.AnyArg(), alert.EmailTo, alert.Status, alert.Timestamp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAlert(context.Background(), alert)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAlert_MissingDeviceID(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	err := repo.CreateAlert(context.Background(), &models.Alert{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "device_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecentAlerts_Success(t *testing.T) {
	db, mock, repo := setupMockAlertDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"alert_id", "device_id", "message", "severity", "source_values", "email_to", "status", "timestamp",
	}).AddRow(
		"a-1", "pool-1", "Niveau d'eau très bas !", "HIGH",
		`{"niveau": 5, "ph": 7, "temperature": 25, "pompe": 0}`,
		"owner@example.com", "envoyée", now,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs("pool-1", 10).
		WillReturnRows(rows)

	alerts, err := repo.GetRecentAlerts(context.Background(), "pool-1", 10)

	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "a-1", alerts[0].AlertID)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, 5.0, alerts[0].SourceValues.Niveau)
	assert.Equal(t, models.AlertStatusSent, alerts[0].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}
