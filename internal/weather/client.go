package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"

	"go.uber.org/zap"
)

// ExternalHeatBound is the outside temperature above which a heat advisory
// is raised.
const ExternalHeatBound = 35.0

// Advisory messages contributed to the alert sequence.
const (
	AdvisoryRain         = "Pluie prévue"
	AdvisoryExternalHeat = "Forte chaleur extérieure prévue"
)

// Client fetches current conditions from the external weather service.
// Enrichment is best-effort: every failure is reported as an error for the
// caller to log and swallow, never to propagate.
type Client struct {
	config     *config.WeatherConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a weather client with a bounded request timeout.
func NewClient(cfg *config.WeatherConfig, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// currentWeatherResponse is the subset of the OpenWeatherMap current-weather
// response the pipeline consumes.
type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Fetch queries current conditions for the configured location.
func (c *Client) Fetch(ctx context.Context) (*models.WeatherInfo, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	reqURL := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		c.config.BaseURL,
		url.QueryEscape(c.config.Location),
		c.config.APIKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var parsed currentWeatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	info := &models.WeatherInfo{
		TemperatureC: parsed.Main.Temp,
		Fetched:      true,
	}
	for _, w := range parsed.Weather {
		info.Conditions = append(info.Conditions, w.Description)
		if strings.Contains(strings.ToLower(w.Description), "rain") {
			info.RainExpected = true
		}
	}

	return info, nil
}

// Advisories derives the advisory messages from fetched conditions.
func Advisories(info *models.WeatherInfo) []string {
	if info == nil || !info.Fetched {
		return nil
	}

	var advisories []string
	if info.RainExpected {
		advisories = append(advisories, AdvisoryRain)
	}
	if info.TemperatureC > ExternalHeatBound {
		advisories = append(advisories, AdvisoryExternalHeat)
	}
	return advisories
}
