package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// AutomationRepository is the append-only automation log (automation_logs
// table), written only when an automation rule fires in AUTO mode.
type AutomationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAutomationRepository creates the automation repository.
func NewAutomationRepository(db *sql.DB, logger *zap.Logger) *AutomationRepository {
	return &AutomationRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAction appends one automation action.
func (r *AutomationRepository) CreateAction(ctx context.Context, action *models.AutomationAction) error {
	if action == nil {
		return fmt.Errorf("action is required")
	}
	if action.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	triggeringValues, err := json.Marshal(action.TriggeringValues)
	if err != nil {
		return fmt.Errorf("failed to marshal triggering values: %w", err)
	}

	query := `
		INSERT INTO automation_logs (
			action_id,
			device_id,
			description,
			triggering_values,
			timestamp
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		action.ActionID,
		action.DeviceID,
		action.Description,
		triggeringValues,
		action.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create automation action: %w", err)
	}

	return nil
}
