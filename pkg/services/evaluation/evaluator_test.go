package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/shiftlog/pkg/apperrors"
	"github.com/ekaya-inc/shiftlog/pkg/models"
)

var pumpPressure = models.EquipmentRange{Min: 50, Max: 150, CriticalMin: 20, CriticalMax: 200, UOM: "psi"}

func TestEvaluate_Status(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  models.ReadingStatus
	}{
		{"midpoint", 100, models.StatusNormal},
		{"at normal max", 150, models.StatusNormal},
		{"at normal min", 50, models.StatusNormal},
		{"between normal max and critical max", 175, models.StatusWarning},
		{"between critical min and normal min", 30, models.StatusWarning},
		{"at critical max", 200, models.StatusWarning},
		{"one above critical max", 201, models.StatusCritical},
		{"below critical min", 10, models.StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.value, pumpPressure)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestEvaluate_Deviation(t *testing.T) {
	got, err := Evaluate(100, pumpPressure)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Deviation)

	got, err = Evaluate(125, pumpPressure)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Deviation)

	got, err = Evaluate(250, pumpPressure)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Deviation)

	got, err = Evaluate(100.37, models.EquipmentRange{Min: 0, Max: 3, CriticalMin: 0, CriticalMax: 300})
	require.NoError(t, err)
	assert.Equal(t, 3295.7, got.Deviation)
}

func TestEvaluate_DeviationIsSymmetric(t *testing.T) {
	ranges := []models.EquipmentRange{
		pumpPressure,
		{Min: 0, Max: 0.3, CriticalMin: 0, CriticalMax: 0.5},
		{Min: -40, Max: 10, CriticalMin: -60, CriticalMax: 30},
	}
	for _, rng := range ranges {
		low, err := Evaluate(rng.Min, rng)
		require.NoError(t, err)
		high, err := Evaluate(rng.Max, rng)
		require.NoError(t, err)
		assert.Equal(t, low.Deviation, high.Deviation)
		assert.Equal(t, 50.0, high.Deviation)
	}
}

func TestEvaluate_ZeroWidthRange(t *testing.T) {
	_, err := Evaluate(10, models.EquipmentRange{Min: 10, Max: 10, CriticalMin: 0, CriticalMax: 20})
	require.ErrorIs(t, err, apperrors.ErrZeroWidthRange)

	_, err = Evaluate(10, models.EquipmentRange{Min: 20, Max: 10, CriticalMin: 0, CriticalMax: 30})
	require.ErrorIs(t, err, apperrors.ErrZeroWidthRange)
}

func TestRecommendation(t *testing.T) {
	assert.Contains(t, Recommendation(models.StatusCritical, "P-101", models.ParamPressure), "IMMEDIATE ACTION REQUIRED")
	assert.Contains(t, Recommendation(models.StatusWarning, "P-101", models.ParamPressure), "Monitor P-101 pressure")
	assert.Contains(t, Recommendation(models.StatusNormal, "P-101", models.ParamPressure), "normal parameters")
}
