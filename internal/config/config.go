package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig holds MQTT broker settings for the device channels.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte

	// TelemetryTopic is the subscription pattern for incoming readings,
	// one wildcard segment for the device ID (e.g. "smartpool/+/telemetry").
	TelemetryTopic string
	// PumpTopicFormat and HeaterTopicFormat take the device ID
	// (e.g. "smartpool/%s/pompe/set").
	PumpTopicFormat   string
	HeaterTopicFormat string
}

// WeatherConfig holds the external weather service settings.
type WeatherConfig struct {
	APIKey         string
	Location       string
	BaseURL        string
	TimeoutSeconds int
}

// EmailConfig holds the outbound alert email settings.
type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	To       string
}

// Config is the pipeline service configuration, built once at startup
// and passed by reference into each component.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Weather  WeatherConfig
	Email    EmailConfig

	Pipeline struct {
		// WindowSize is the number of recent readings used for moving averages.
		WindowSize int
		// QualityGate is the quality-index threshold below which
		// per-field alert rules are evaluated.
		QualityGate int

		Cache struct {
			RealtimeKeyPrefix string // e.g. "smartpool:device:"
			RealtimeSuffix    string // e.g. ":realtime"
			AlertSuffix       string // e.g. ":alerts"
			AlertTTL          int    // seconds
		}
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "smartpool")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "smartpool-pipeline")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1
	cfg.MQTT.TelemetryTopic = getEnv("MQTT_TELEMETRY_TOPIC", "smartpool/+/telemetry")
	cfg.MQTT.PumpTopicFormat = getEnv("MQTT_PUMP_TOPIC_FORMAT", "smartpool/%s/pompe/set")
	cfg.MQTT.HeaterTopicFormat = getEnv("MQTT_HEATER_TOPIC_FORMAT", "smartpool/%s/chauffage/set")

	cfg.Weather.APIKey = getEnv("WEATHER_API_KEY", "")
	cfg.Weather.Location = getEnv("WEATHER_LOCATION", "Brussels")
	cfg.Weather.BaseURL = getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.Weather.TimeoutSeconds = getEnvInt("WEATHER_TIMEOUT_SECONDS", 5)

	cfg.Email.SMTPHost = getEnv("EMAIL_SMTP_HOST", "smtp.gmail.com")
	cfg.Email.SMTPPort = getEnvInt("EMAIL_SMTP_PORT", 587)
	cfg.Email.Username = getEnv("EMAIL_USERNAME", "")
	cfg.Email.Password = getEnv("EMAIL_PASSWORD", "")
	cfg.Email.From = getEnv("EMAIL_FROM", "")
	cfg.Email.To = getEnv("EMAIL_TO", "")

	cfg.Pipeline.WindowSize = getEnvInt("PIPELINE_WINDOW_SIZE", 20)
	cfg.Pipeline.QualityGate = getEnvInt("PIPELINE_QUALITY_GATE", 85)

	cfg.Pipeline.Cache.RealtimeKeyPrefix = getEnv("CACHE_REALTIME_PREFIX", "smartpool:device:")
	cfg.Pipeline.Cache.RealtimeSuffix = ":realtime"
	cfg.Pipeline.Cache.AlertSuffix = ":alerts"
	cfg.Pipeline.Cache.AlertTTL = 60

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
