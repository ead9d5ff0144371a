package analytics

import (
	"github.com/fatma123m/SmartPool/internal/models"
)

// Flat penalties applied when a rolling mean breaches its bound. A breach
// incurs the full penalty regardless of magnitude.
const (
	TempPenalty   = 20
	PHPenalty     = 15
	NiveauPenalty = 15
)

// ComputeQualityIndex derives the composite 0-100 quality index (IQE) from
// the rolling means: 100 minus the sum of flat penalties. Deterministic and
// idempotent for identical inputs. The result is not clamped; the current
// penalty schedule cannot drive it below 50.
func ComputeQualityIndex(window models.AggregateWindow) int {
	iqe := 100

	if window.TempMean < TempColdBound || window.TempMean > TempHotBound {
		iqe -= TempPenalty
	}
	if window.PHMean < PHAcidBound || window.PHMean > PHBasicBound {
		iqe -= PHPenalty
	}
	if window.NiveauMean < NiveauLowBound {
		iqe -= NiveauPenalty
	}

	return iqe
}
