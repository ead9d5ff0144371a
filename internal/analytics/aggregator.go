package analytics

import (
	"context"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// Trend thresholds over the rolling means.
const (
	PHAcidBound    = 6.5
	PHBasicBound   = 8.0
	TempHotBound   = 35.0
	TempColdBound  = 20.0
	NiveauLowBound = 20.0
	TrendOK        = "OK"
	TrendAcide     = "Acide"
	TrendBasique   = "Basique"
	TrendTropChaud = "Trop chaud"
	TrendTropFroid = "Trop froid"
	TrendNiveauBas = "Niveau bas"
)

// ReadingSource provides the most recent persisted readings, newest first.
type ReadingSource interface {
	GetRecentReadings(ctx context.Context, deviceID string, limit int) ([]*models.Reading, error)
}

// Aggregator computes the rolling-window moving averages and trend labels.
// The window is re-read from the log store on every invocation; no state is
// carried between invocations.
type Aggregator struct {
	windowSize int
	source     ReadingSource
	logger     *zap.Logger
}

// NewAggregator creates an aggregator over the given reading source.
func NewAggregator(windowSize int, source ReadingSource, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		windowSize: windowSize,
		source:     source,
		logger:     logger,
	}
}

// Compute fetches the last W readings and derives means and trends.
// An empty log yields a zero-count window; callers must check HasData before
// consuming the means.
func (a *Aggregator) Compute(ctx context.Context, deviceID string) (models.AggregateWindow, models.TrendSet, error) {
	readings, err := a.source.GetRecentReadings(ctx, deviceID, a.windowSize)
	if err != nil {
		return models.AggregateWindow{}, models.TrendSet{}, fmt.Errorf("failed to fetch rolling window: %w", err)
	}

	window := computeWindow(readings)
	if !window.HasData() {
		a.logger.Debug("No readings in rolling window",
			zap.String("device_id", deviceID),
		)
		return window, models.TrendSet{}, nil
	}

	trends := ComputeTrends(window)

	return window, trends, nil
}

func computeWindow(readings []*models.Reading) models.AggregateWindow {
	var window models.AggregateWindow
	if len(readings) == 0 {
		return window
	}

	var phTotal, tempTotal, niveauTotal float64
	for _, r := range readings {
		phTotal += r.PH
		tempTotal += r.Temperature
		niveauTotal += r.Niveau
	}

	count := float64(len(readings))
	window.PHMean = phTotal / count
	window.TempMean = tempTotal / count
	window.NiveauMean = niveauTotal / count
	window.Count = len(readings)

	return window
}

// ComputeTrends maps the window means to fixed-threshold trend labels.
func ComputeTrends(window models.AggregateWindow) models.TrendSet {
	trends := models.TrendSet{
		PH:          TrendOK,
		Temperature: TrendOK,
		Niveau:      TrendOK,
	}

	if window.PHMean < PHAcidBound {
		trends.PH = TrendAcide
	} else if window.PHMean > PHBasicBound {
		trends.PH = TrendBasique
	}

	if window.TempMean > TempHotBound {
		trends.Temperature = TrendTropChaud
	} else if window.TempMean < TempColdBound {
		trends.Temperature = TrendTropFroid
	}

	if window.NiveauMean < NiveauLowBound {
		trends.Niveau = TrendNiveauBas
	}

	return trends
}
