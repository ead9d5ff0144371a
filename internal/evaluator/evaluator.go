package evaluator

import (
	"time"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Alert messages for the fixed rule table.
const (
	AlertPumpDown        = "Pompe en panne !"
	AlertChemical        = "Alerte chimique !"
	AlertHighTemperature = "Alerte température élevée !"
	AlertLevelCritical   = "Niveau d'eau très bas !"
)

// Thresholds over the instantaneous raw reading.
const (
	pumpNiveauBound     = 20.0
	phAcidBound         = 6.5
	phBasicBound        = 8.0
	tempHighBound       = 35.0
	niveauCriticalBound = 10.0
)

// rule is one row of the alert rule table, evaluated against the raw
// reading, not the rolling mean.
type rule struct {
	fires    func(r *models.Reading) bool
	message  string
	severity string
}

// ruleTable is evaluated in order; every matching rule fires.
var ruleTable = []rule{
	{
		fires:    func(r *models.Reading) bool { return r.Pompe == models.PumpOff && r.Niveau < pumpNiveauBound },
		message:  AlertPumpDown,
		severity: models.SeverityHigh,
	},
	{
		fires:    func(r *models.Reading) bool { return r.PH < phAcidBound || r.PH > phBasicBound },
		message:  AlertChemical,
		severity: models.SeverityMedium,
	},
	{
		fires:    func(r *models.Reading) bool { return r.Temperature > tempHighBound },
		message:  AlertHighTemperature,
		severity: models.SeverityMedium,
	},
	{
		fires:    func(r *models.Reading) bool { return r.Niveau < niveauCriticalBound },
		message:  AlertLevelCritical,
		severity: models.SeverityHigh,
	},
}

// Evaluator applies the threshold rule table, gated by the composite
// quality index.
type Evaluator struct {
	qualityGate int
	logger      *zap.Logger
}

// NewEvaluator creates an alert evaluator with the given quality gate.
func NewEvaluator(qualityGate int, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		qualityGate: qualityGate,
		logger:      logger,
	}
}

// Evaluate returns the ordered alert sequence for one invocation. The
// per-field threshold rules run only when a quality index is available and
// below the gate; isolated single-field excursions do not alert on their own.
// Weather advisories are appended after the rule-table alerts and are not
// gated, since they come from an external signal rather than pool telemetry.
func (e *Evaluator) Evaluate(reading *models.Reading, quality *int, advisories []string) []*models.Alert {
	var alerts []*models.Alert

	if quality != nil && *quality < e.qualityGate {
		for _, r := range ruleTable {
			if r.fires(reading) {
				alerts = append(alerts, buildAlert(reading, r.message, r.severity))
			}
		}

		if len(alerts) > 0 {
			e.logger.Info("Threshold alerts fired",
				zap.String("device_id", reading.DeviceID),
				zap.Int("quality_index", *quality),
				zap.Int("alert_count", len(alerts)),
			)
		}
	} else if quality != nil {
		e.logger.Debug("Quality gate closed, skipping threshold rules",
			zap.String("device_id", reading.DeviceID),
			zap.Int("quality_index", *quality),
			zap.Int("gate", e.qualityGate),
		)
	}

	for _, advisory := range advisories {
		alerts = append(alerts, buildAlert(reading, advisory, models.SeverityMedium))
	}

	return alerts
}

func buildAlert(reading *models.Reading, message, severity string) *models.Alert {
	return &models.Alert{
		AlertID:  uuid.New().String(),
		DeviceID: reading.DeviceID,
		Message:  message,
		Severity: severity,
		SourceValues: models.SourceValues{
			Niveau:      reading.Niveau,
			PH:          reading.PH,
			Temperature: reading.Temperature,
			Pompe:       reading.Pompe,
		},
		Timestamp: time.Now(),
	}
}
