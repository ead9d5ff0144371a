package pipeline

import (
	"time"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/google/uuid"
)

// Invocation is the explicit per-invocation context record threaded through
// the pipeline steps. Each step records its own measured latency here; no
// state is shared between invocations.
type Invocation struct {
	ID        string
	DeviceID  string
	StartedAt time.Time

	weatherLatency   time.Duration
	actuationLatency time.Duration
	storeLatency     time.Duration
	alertCount       int
}

func newInvocation(deviceID string) *Invocation {
	return &Invocation{
		ID:        uuid.New().String(),
		DeviceID:  deviceID,
		StartedAt: time.Now(),
	}
}

// ObserveWeather records the external weather call latency.
func (inv *Invocation) ObserveWeather(d time.Duration) {
	inv.weatherLatency = d
}

// ObserveActuation records the accumulated actuation write latency.
func (inv *Invocation) ObserveActuation(d time.Duration) {
	inv.actuationLatency += d
}

// ObserveStoreWrite adds one store write to the accumulated write latency.
func (inv *Invocation) ObserveStoreWrite(d time.Duration) {
	inv.storeLatency += d
}

// SetAlertCount records the number of alerts fired by this invocation.
func (inv *Invocation) SetAlertCount(n int) {
	inv.alertCount = n
}

// PerformanceRecord builds the latency record persisted at the end of the
// invocation.
func (inv *Invocation) PerformanceRecord() *models.PerformanceRecord {
	return &models.PerformanceRecord{
		RecordID:     uuid.New().String(),
		DeviceID:     inv.DeviceID,
		TotalMs:      time.Since(inv.StartedAt).Milliseconds(),
		WeatherAPIMs: inv.weatherLatency.Milliseconds(),
		ActuationMs:  inv.actuationLatency.Milliseconds(),
		StoreWriteMs: inv.storeLatency.Milliseconds(),
		AlertCount:   inv.alertCount,
		Timestamp:    time.Now(),
	}
}
