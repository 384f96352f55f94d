// Package evaluation scores equipment readings against operating ranges and
// detects short-window trends in reading history.
package evaluation

import (
	"fmt"
	"math"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// Evaluation is the status and deviation of one value against a range.
type Evaluation struct {
	Status    models.ReadingStatus `json:"status"`
	Deviation float64              `json:"deviation"`
}

// Evaluate classifies value against rng. The critical band is checked first,
// so a value outside both bands is only ever reported as critical.
//
// Deviation is the distance from the midpoint of the normal band as a
// percentage of the band width, rounded to one decimal. A zero-width band
// returns apperrors.ErrZeroWidthRange.
func Evaluate(value float64, rng models.EquipmentRange) (Evaluation, error) {
	width := rng.Max - rng.Min
	if width <= 0 {
		return Evaluation{}, fmt.Errorf("%w: min %.2f, max %.2f", apperrors.ErrZeroWidthRange, rng.Min, rng.Max)
	}

	return Evaluation{
		Status:    Status(value, rng),
		Deviation: round1(math.Abs(value-(rng.Min+rng.Max)/2) / width * 100),
	}, nil
}

// Status returns the band the value falls in. Bounds are inclusive.
func Status(value float64, rng models.EquipmentRange) models.ReadingStatus {
	switch {
	case value < rng.CriticalMin || value > rng.CriticalMax:
		return models.StatusCritical
	case value < rng.Min || value > rng.Max:
		return models.StatusWarning
	default:
		return models.StatusNormal
	}
}

// Recommendation is the operator guidance for a single reading's status.
func Recommendation(status models.ReadingStatus, equipmentID string, param models.Parameter) string {
	switch status {
	case models.StatusCritical:
		return fmt.Sprintf("IMMEDIATE ACTION REQUIRED: %s %s is outside critical limits. Notify the shift supervisor and follow the emergency procedure.", equipmentID, param)
	case models.StatusWarning:
		return fmt.Sprintf("Monitor %s %s closely and verify with a follow-up reading. Outside the normal operating range.", equipmentID, param)
	default:
		return "Operating within normal parameters. Continue routine monitoring."
	}
}

// StatusIcon returns the marker used for a status in formatted output.
func StatusIcon(status models.ReadingStatus) string {
	switch status {
	case models.StatusCritical:
		return "🚨"
	case models.StatusWarning:
		return "⚠️"
	default:
		return "✅"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
