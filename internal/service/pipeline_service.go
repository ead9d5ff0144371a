package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatma123m/SmartPool/internal/automation"
	"github.com/fatma123m/SmartPool/internal/cache"
	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/database"
	"github.com/fatma123m/SmartPool/internal/ingest"
	"github.com/fatma123m/SmartPool/internal/mqtt"
	"github.com/fatma123m/SmartPool/internal/notifier"
	"github.com/fatma123m/SmartPool/internal/pipeline"
	"github.com/fatma123m/SmartPool/internal/repository"
	"github.com/fatma123m/SmartPool/internal/weather"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PipelineService wires the telemetry pipeline together: broker consumer,
// processing pipeline, stores, cache and notification channel.
type PipelineService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client
	logger      *zap.Logger

	readingRepo     *repository.ReadingRepository
	metricsRepo     *repository.MetricsRepository
	alertRepo       *repository.AlertRepository
	automationRepo  *repository.AutomationRepository
	performanceRepo *repository.PerformanceRepository

	snapshotCache *cache.SnapshotCache
	pipeline      *pipeline.Pipeline
	consumer      *ingest.Consumer
}

// NewPipelineService creates the pipeline service and its connections.
func NewPipelineService(cfg *config.Config, logger *zap.Logger) (*PipelineService, error) {
	// 1. Connect to the database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 2. Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 3. Connect to the MQTT broker
	mqttClient, err := mqtt.NewClient(&cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	// 4. Repository layer
	readingRepo := repository.NewReadingRepository(db, logger)
	metricsRepo := repository.NewMetricsRepository(db, logger)
	alertRepo := repository.NewAlertRepository(db, logger)
	automationRepo := repository.NewAutomationRepository(db, logger)
	performanceRepo := repository.NewPerformanceRepository(db, logger)

	// 5. Pipeline collaborators
	snapshotCache := cache.NewSnapshotCache(cfg, redisClient, logger)
	actuator := automation.NewMQTTActuator(&cfg.MQTT, mqttClient)
	weatherClient := weather.NewClient(&cfg.Weather, logger)
	dispatcher := notifier.NewEmailDispatcher(&cfg.Email, logger)

	// 6. Pipeline and consumer
	proc := pipeline.New(
		cfg,
		actuator,
		weatherClient,
		dispatcher,
		readingRepo,
		metricsRepo,
		alertRepo,
		automationRepo,
		performanceRepo,
		snapshotCache,
		logger,
	)

	consumer := ingest.NewConsumer(cfg, mqttClient, proc, logger)

	return &PipelineService{
		config:          cfg,
		db:              db,
		redisClient:     redisClient,
		mqttClient:      mqttClient,
		logger:          logger,
		readingRepo:     readingRepo,
		metricsRepo:     metricsRepo,
		alertRepo:       alertRepo,
		automationRepo:  automationRepo,
		performanceRepo: performanceRepo,
		snapshotCache:   snapshotCache,
		pipeline:        proc,
		consumer:        consumer,
	}, nil
}

// Start subscribes the telemetry consumer.
func (s *PipelineService) Start(ctx context.Context) error {
	s.logger.Info("Starting pipeline service",
		zap.String("telemetry_topic", s.config.MQTT.TelemetryTopic),
		zap.Int("window_size", s.config.Pipeline.WindowSize),
		zap.Int("quality_gate", s.config.Pipeline.QualityGate),
	)

	if err := s.consumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start telemetry consumer: %w", err)
	}

	return nil
}

// Stop unsubscribes the consumer and closes the connections.
func (s *PipelineService) Stop() error {
	s.logger.Info("Stopping pipeline service")

	if err := s.consumer.Stop(); err != nil {
		s.logger.Error("Failed to stop telemetry consumer",
			zap.Error(err),
		)
	}

	s.mqttClient.Disconnect()

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database",
			zap.Error(err),
		)
	}

	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("Failed to close redis",
			zap.Error(err),
		)
	}

	return nil
}
