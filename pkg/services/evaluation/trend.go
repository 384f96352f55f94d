package evaluation

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// Trend window sizes. Only the first OlderWindowEnd readings feed the averages;
// the incident tally covers up to HistoryWindow readings.
const (
	HistoryWindow    = 10
	MinTrendReadings = 3
	RecentWindowEnd  = 3
	OlderWindowEnd   = 6

	// StableThreshold is the absolute trend percentage still considered stable.
	StableThreshold = 5.0
)

// TrendDirection classifies the change between the recent and older windows.
type TrendDirection string

const (
	TrendInsufficientData TrendDirection = "insufficient_data"
	TrendIndeterminate    TrendDirection = "indeterminate"
	TrendStable           TrendDirection = "stable"
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
)

// Recommendations emitted from the incident tally.
const (
	RecommendImmediateInspection   = "immediate inspection"
	RecommendPreventiveMaintenance = "preventive maintenance"
)

// TrendAnalysis summarizes recent drift and abnormal readings for one
// equipment parameter.
type TrendAnalysis struct {
	Direction       TrendDirection `json:"direction"`
	TrendPercent    float64        `json:"trend_percent"`
	RecentAverage   float64        `json:"recent_average"`
	OlderAverage    float64        `json:"older_average"`
	ReadingsUsed    int            `json:"readings_used"`
	WarningCount    int            `json:"warning_count"`
	CriticalCount   int            `json:"critical_count"`
	NeedsMonitoring bool           `json:"needs_monitoring"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Summary         string         `json:"summary"`
}

// AnalyzeTrend inspects readings ordered newest first. At most HistoryWindow
// readings are considered.
//
// The trend compares the average of readings [0,3) with readings [3,6).
// Warning and critical readings are tallied across the whole window so
// isolated excursions are reported even when the averages are flat.
func AnalyzeTrend(readings []*models.EquipmentReading) TrendAnalysis {
	if len(readings) > HistoryWindow {
		readings = readings[:HistoryWindow]
	}

	if len(readings) < MinTrendReadings {
		return TrendAnalysis{
			Direction:    TrendInsufficientData,
			ReadingsUsed: len(readings),
			Summary:      fmt.Sprintf("Insufficient data for trend analysis (%d of %d readings needed).", len(readings), MinTrendReadings),
		}
	}

	result := TrendAnalysis{}
	for _, r := range readings {
		switch r.Status {
		case models.StatusCritical:
			result.CriticalCount++
		case models.StatusWarning:
			result.WarningCount++
		}
	}

	recent := readings[:RecentWindowEnd]
	older := readings[RecentWindowEnd:min(len(readings), OlderWindowEnd)]
	result.ReadingsUsed = len(recent) + len(older)
	result.RecentAverage = round1(average(recent))

	switch {
	case len(older) == 0:
		result.Direction = TrendIndeterminate
		result.Summary = "Trend indeterminate: no older readings to compare against yet."
	case average(older) == 0:
		result.Direction = TrendIndeterminate
		result.Summary = "Trend indeterminate: older readings average to zero, percentage change is undefined."
	default:
		olderAvg := average(older)
		result.OlderAverage = round1(olderAvg)
		percent := (average(recent) - olderAvg) * 100 / olderAvg
		result.TrendPercent = round1(percent)
		result.Direction = classifyTrend(percent)
		result.NeedsMonitoring = result.Direction != TrendStable
		result.Summary = trendSummary(result)
	}

	switch {
	case result.CriticalCount > 0:
		result.Recommendations = append(result.Recommendations, RecommendImmediateInspection)
	case result.WarningCount > 2:
		result.Recommendations = append(result.Recommendations, RecommendPreventiveMaintenance)
	}

	return result
}

func classifyTrend(percent float64) TrendDirection {
	switch {
	case percent > StableThreshold:
		return TrendIncreasing
	case percent < -StableThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func trendSummary(t TrendAnalysis) string {
	var b strings.Builder
	switch t.Direction {
	case TrendIncreasing:
		fmt.Fprintf(&b, "📈 Increasing trend: +%.1f%% (recent avg %.1f vs %.1f). Monitor closely.", t.TrendPercent, t.RecentAverage, t.OlderAverage)
	case TrendDecreasing:
		fmt.Fprintf(&b, "📉 Decreasing trend: %.1f%% (recent avg %.1f vs %.1f). Monitor closely.", t.TrendPercent, t.RecentAverage, t.OlderAverage)
	default:
		fmt.Fprintf(&b, "➡️ Stable: %+.1f%% change (recent avg %.1f vs %.1f).", t.TrendPercent, t.RecentAverage, t.OlderAverage)
	}
	return b.String()
}

func average(readings []*models.EquipmentReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += r.Value
	}
	return sum / float64(len(readings))
}
