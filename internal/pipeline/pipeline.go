package pipeline

import (
	"context"
	"time"

	"github.com/fatma123m/SmartPool/internal/analytics"
	"github.com/fatma123m/SmartPool/internal/automation"
	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/evaluator"
	"github.com/fatma123m/SmartPool/internal/ingest"
	"github.com/fatma123m/SmartPool/internal/models"
	"github.com/fatma123m/SmartPool/internal/weather"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReadingStore is the append-only log of validated readings.
type ReadingStore interface {
	CreateReading(ctx context.Context, reading *models.Reading) error
	GetRecentReadings(ctx context.Context, deviceID string, limit int) ([]*models.Reading, error)
}

// MetricsStore appends derived-metrics records.
type MetricsStore interface {
	CreateMetricsRecord(ctx context.Context, record *models.MetricsRecord) error
}

// AlertStore appends fired alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
}

// AutomationStore appends automation actions.
type AutomationStore interface {
	CreateAction(ctx context.Context, action *models.AutomationAction) error
}

// PerformanceStore appends per-invocation latency records.
type PerformanceStore interface {
	CreatePerformanceRecord(ctx context.Context, record *models.PerformanceRecord) error
}

// WeatherProvider fetches external conditions, best-effort.
type WeatherProvider interface {
	Fetch(ctx context.Context) (*models.WeatherInfo, error)
}

// AlertDispatcher sends the aggregated alert notification.
type AlertDispatcher interface {
	DispatchAlerts(reading *models.Reading, alerts []*models.Alert) error
	Recipient() string
}

// Snapshotter keeps the dashboard-facing realtime cache, best-effort.
type Snapshotter interface {
	UpdateRealtimeSnapshot(ctx context.Context, reading *models.Reading) error
	UpdateAlertCache(ctx context.Context, deviceID string, alerts []*models.Alert) error
}

// Pipeline runs the telemetry processing sequence once per incoming reading:
// normalize, persist, aggregate, quality index, automation, weather
// enrichment, alert evaluation, notification, metrics and performance
// persistence. Steps never re-enter earlier ones; the only concurrency inside
// an invocation is the weather fetch, which is joined before alert
// evaluation.
type Pipeline struct {
	config      *config.Config
	aggregator  *analytics.Aggregator
	engine      *automation.Engine
	evaluator   *evaluator.Evaluator
	weather     WeatherProvider
	dispatcher  AlertDispatcher
	readings    ReadingStore
	metrics     MetricsStore
	alerts      AlertStore
	actions     AutomationStore
	performance PerformanceStore
	snapshots   Snapshotter
	logger      *zap.Logger
}

// New creates a pipeline over the given collaborators.
func New(
	cfg *config.Config,
	actuator automation.Actuator,
	weatherProvider WeatherProvider,
	dispatcher AlertDispatcher,
	readings ReadingStore,
	metrics MetricsStore,
	alerts AlertStore,
	actions AutomationStore,
	performance PerformanceStore,
	snapshots Snapshotter,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		config:      cfg,
		aggregator:  analytics.NewAggregator(cfg.Pipeline.WindowSize, readings, logger),
		engine:      automation.NewEngine(actuator, logger),
		evaluator:   evaluator.NewEvaluator(cfg.Pipeline.QualityGate, logger),
		weather:     weatherProvider,
		dispatcher:  dispatcher,
		readings:    readings,
		metrics:     metrics,
		alerts:      alerts,
		actions:     actions,
		performance: performance,
		snapshots:   snapshots,
		logger:      logger,
	}
}

type enrichmentResult struct {
	info    *models.WeatherInfo
	latency time.Duration
}

// Run executes one pipeline invocation. A structurally empty payload exits
// before any write. Collaborator failures degrade their own channel only;
// Run returns an error only when the invocation could not proceed at all.
func (p *Pipeline) Run(ctx context.Context, deviceID string, raw *models.RawReading) error {
	inv := newInvocation(deviceID)

	reading, ok := ingest.Normalize(deviceID, raw)
	if !ok {
		p.logger.Debug("Empty telemetry payload, skipping invocation",
			zap.String("device_id", deviceID),
		)
		return nil
	}

	// enrichment is independent of the aggregate chain; start it now and
	// join it before the alert evaluator consumes its output
	enrichmentCh := make(chan enrichmentResult, 1)
	go p.fetchWeather(ctx, enrichmentCh)

	p.appendReading(ctx, inv, reading)

	window, trends, err := p.aggregator.Compute(ctx, deviceID)
	if err != nil {
		// degrade to "no aggregate available": gate stays closed, no automation
		p.logger.Error("Rolling window unavailable",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		window = models.AggregateWindow{}
		trends = models.TrendSet{}
	}

	var quality *int
	if window.HasData() {
		iqe := analytics.ComputeQualityIndex(window)
		quality = &iqe
	}

	actions, actuationTime := p.engine.Decide(ctx, reading, window)
	inv.ObserveActuation(actuationTime)

	enrichment := <-enrichmentCh
	inv.ObserveWeather(enrichment.latency)
	weatherInfo := enrichment.info
	if weatherInfo == nil {
		weatherInfo = &models.WeatherInfo{}
	}

	alerts := p.evaluator.Evaluate(reading, quality, weather.Advisories(weatherInfo))
	inv.SetAlertCount(len(alerts))

	p.dispatchAndPersistAlerts(ctx, inv, reading, alerts)
	p.appendMetrics(ctx, inv, reading, window, trends, quality, weatherInfo)
	p.appendActions(ctx, inv, actions)
	p.updateSnapshots(ctx, reading, alerts)
	p.appendPerformance(ctx, inv)

	p.logger.Info("Reading processed",
		zap.String("device_id", deviceID),
		zap.String("invocation_id", inv.ID),
		zap.Float64("niveau", reading.Niveau),
		zap.Float64("ph", reading.PH),
		zap.Float64("temperature", reading.Temperature),
		zap.Int("pompe", reading.Pompe),
		zap.Int("alert_count", len(alerts)),
		zap.Int("action_count", len(actions)),
	)

	return nil
}

func (p *Pipeline) fetchWeather(ctx context.Context, out chan<- enrichmentResult) {
	start := time.Now()
	info, err := p.weather.Fetch(ctx)
	latency := time.Since(start)

	if err != nil {
		// best-effort: enrichment contributes nothing on failure
		p.logger.Warn("Weather enrichment unavailable",
			zap.Error(err),
		)
		out <- enrichmentResult{latency: latency}
		return
	}

	out <- enrichmentResult{info: info, latency: latency}
}

func (p *Pipeline) appendReading(ctx context.Context, inv *Invocation, reading *models.Reading) {
	start := time.Now()
	err := p.readings.CreateReading(ctx, reading)
	inv.ObserveStoreWrite(time.Since(start))

	if err != nil {
		p.logger.Error("Failed to persist reading",
			zap.String("device_id", reading.DeviceID),
			zap.Error(err),
		)
	}
}

// dispatchAndPersistAlerts sends the aggregated notification and appends each
// alert with its dispatch outcome. The alert log is persisted whether or not
// delivery succeeded.
func (p *Pipeline) dispatchAndPersistAlerts(ctx context.Context, inv *Invocation, reading *models.Reading, alerts []*models.Alert) {
	if len(alerts) == 0 {
		return
	}

	status := models.AlertStatusSent
	if err := p.dispatcher.DispatchAlerts(reading, alerts); err != nil {
		p.logger.Error("Failed to dispatch alert notification",
			zap.String("device_id", reading.DeviceID),
			zap.Error(err),
		)
		status = models.AlertStatusFailed
	}

	for _, alert := range alerts {
		alert.EmailTo = p.dispatcher.Recipient()
		alert.Status = status

		start := time.Now()
		err := p.alerts.CreateAlert(ctx, alert)
		inv.ObserveStoreWrite(time.Since(start))

		if err != nil {
			p.logger.Error("Failed to persist alert",
				zap.String("alert_id", alert.AlertID),
				zap.Error(err),
			)
			// keep persisting the remaining alerts
		}
	}
}

func (p *Pipeline) appendMetrics(ctx context.Context, inv *Invocation, reading *models.Reading, window models.AggregateWindow, trends models.TrendSet, quality *int, weatherInfo *models.WeatherInfo) {
	record := &models.MetricsRecord{
		MetricID:     uuid.New().String(),
		DeviceID:     reading.DeviceID,
		PHMean:       window.PHMean,
		TempMean:     window.TempMean,
		NiveauMean:   window.NiveauMean,
		Trends:       trends,
		QualityIndex: quality,
		Pompe:        reading.Pompe,
		Mode:         reading.Mode,
		Weather:      *weatherInfo,
		Timestamp:    time.Now(),
	}

	start := time.Now()
	err := p.metrics.CreateMetricsRecord(ctx, record)
	inv.ObserveStoreWrite(time.Since(start))

	if err != nil {
		p.logger.Error("Failed to persist metrics record",
			zap.String("device_id", reading.DeviceID),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) appendActions(ctx context.Context, inv *Invocation, actions []*models.AutomationAction) {
	for _, action := range actions {
		start := time.Now()
		err := p.actions.CreateAction(ctx, action)
		inv.ObserveStoreWrite(time.Since(start))

		if err != nil {
			p.logger.Error("Failed to persist automation action",
				zap.String("action_id", action.ActionID),
				zap.Error(err),
			)
		}
	}
}

func (p *Pipeline) updateSnapshots(ctx context.Context, reading *models.Reading, alerts []*models.Alert) {
	if p.snapshots == nil {
		return
	}

	if err := p.snapshots.UpdateRealtimeSnapshot(ctx, reading); err != nil {
		p.logger.Warn("Failed to update realtime snapshot",
			zap.String("device_id", reading.DeviceID),
			zap.Error(err),
		)
	}

	if len(alerts) > 0 {
		if err := p.snapshots.UpdateAlertCache(ctx, reading.DeviceID, alerts); err != nil {
			p.logger.Warn("Failed to update alert cache",
				zap.String("device_id", reading.DeviceID),
				zap.Error(err),
			)
		}
	}
}

func (p *Pipeline) appendPerformance(ctx context.Context, inv *Invocation) {
	record := inv.PerformanceRecord()
	if err := p.performance.CreatePerformanceRecord(ctx, record); err != nil {
		p.logger.Error("Failed to persist performance record",
			zap.String("device_id", inv.DeviceID),
			zap.Error(err),
		)
	}
}
