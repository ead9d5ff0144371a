package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatma123m/SmartPool/internal/config"
	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(serverURL string) *Client {
	cfg := &config.WeatherConfig{
		APIKey:         "test-key",
		Location:       "Brussels",
		BaseURL:        serverURL,
		TimeoutSeconds: 1,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Brussels", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 18.5}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	info, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.True(t, info.Fetched)
	assert.InDelta(t, 18.5, info.TemperatureC, 0.001)
	assert.True(t, info.RainExpected)
	assert.Equal(t, []string{"light rain"}, info.Conditions)
}

func TestClient_Fetch_RainDetectionIsCaseInsensitive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "Heavy RAIN showers"}],
			"main": {"temp": 22}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	info, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.True(t, info.RainExpected)
}

func TestClient_Fetch_NoRain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"weather": [{"main": "Clear", "description": "clear sky"}],
			"main": {"temp": 38}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	info, err := client.Fetch(context.Background())

	require.NoError(t, err)
	assert.False(t, info.RainExpected)
	assert.InDelta(t, 38.0, info.TemperatureC, 0.001)
}

func TestClient_Fetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background())

	assert.Error(t, err)
}

func TestClient_Fetch_MissingAPIKey(t *testing.T) {
	cfg := &config.WeatherConfig{Location: "Brussels", BaseURL: "http://localhost", TimeoutSeconds: 1}
	client := NewClient(cfg, zap.NewNop())

	_, err := client.Fetch(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}

func TestAdvisories(t *testing.T) {
	assert.Nil(t, Advisories(nil))
	assert.Nil(t, Advisories(&models.WeatherInfo{}))

	info := &models.WeatherInfo{Fetched: true, RainExpected: true, TemperatureC: 20}
	assert.Equal(t, []string{AdvisoryRain}, Advisories(info))

	info = &models.WeatherInfo{Fetched: true, TemperatureC: 36}
	assert.Equal(t, []string{AdvisoryExternalHeat}, Advisories(info))

	info = &models.WeatherInfo{Fetched: true, RainExpected: true, TemperatureC: 36}
	assert.Equal(t, []string{AdvisoryRain, AdvisoryExternalHeat}, Advisories(info))
}
