package analytics

import (
	"testing"

	"github.com/fatma123m/SmartPool/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeQualityIndex_Schedule(t *testing.T) {
	tests := []struct {
		name   string
		window models.AggregateWindow
		want   int
	}{
		{
			name:   "no breach",
			window: models.AggregateWindow{PHMean: 7, TempMean: 25, NiveauMean: 50, Count: 20},
			want:   100,
		},
		{
			name:   "temperature breach only",
			window: models.AggregateWindow{PHMean: 7, TempMean: 40, NiveauMean: 50, Count: 20},
			want:   80,
		},
		{
			name:   "ph breach only",
			window: models.AggregateWindow{PHMean: 9, TempMean: 25, NiveauMean: 50, Count: 20},
			want:   85,
		},
		{
			name:   "niveau breach only",
			window: models.AggregateWindow{PHMean: 7, TempMean: 25, NiveauMean: 10, Count: 20},
			want:   85,
		},
		{
			name:   "temperature and ph",
			window: models.AggregateWindow{PHMean: 6, TempMean: 15, NiveauMean: 50, Count: 20},
			want:   65,
		},
		{
			name:   "temperature and niveau",
			window: models.AggregateWindow{PHMean: 7, TempMean: 40, NiveauMean: 10, Count: 20},
			want:   65,
		},
		{
			name:   "ph and niveau",
			window: models.AggregateWindow{PHMean: 9, TempMean: 25, NiveauMean: 10, Count: 20},
			want:   70,
		},
		{
			name:   "all three breaches",
			window: models.AggregateWindow{PHMean: 9, TempMean: 40, NiveauMean: 10, Count: 20},
			want:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeQualityIndex(tt.window))
		})
	}
}

func TestComputeQualityIndex_Deterministic(t *testing.T) {
	window := models.AggregateWindow{PHMean: 9, TempMean: 40, NiveauMean: 10, Count: 20}
	first := ComputeQualityIndex(window)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeQualityIndex(window))
	}
}
