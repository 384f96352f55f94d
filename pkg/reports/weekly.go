package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// WeekDays is the number of calendar days covered by a weekly summary.
const WeekDays = 7

// WeekStart returns the start of the week ending at end: the same wall-clock
// time seven days earlier in end's location.
func WeekStart(end time.Time) time.Time {
	return end.AddDate(0, 0, -WeekDays)
}

// TopUnitsLimit is the number of units listed as most active.
const TopUnitsLimit = 5

// UnitCount is a unit and the number of notes logged against it.
type UnitCount struct {
	Unit  string `json:"unit"`
	Count int    `json:"count"`
}

// EquipmentIncidents counts abnormal readings for one piece of equipment.
type EquipmentIncidents struct {
	EquipmentID string `json:"equipment_id"`
	Warnings    int    `json:"warnings"`
	Critical    int    `json:"critical"`
}

// WeeklyStats aggregates a week of notes and readings.
type WeeklyStats struct {
	Start        time.Time            `json:"start"`
	End          time.Time            `json:"end"`
	Counts       Counts               `json:"counts"`
	ByShift      map[models.Shift]int `json:"by_shift"`
	TopUnits     []UnitCount          `json:"top_units"`
	Urgent       []*models.ShiftNote  `json:"urgent_notes"`
	Abnormal     []EquipmentIncidents `json:"abnormal_readings"`
	ReadingCount int                  `json:"reading_count"`
}

// BuildWeeklyStats aggregates notes and readings for the week [start, end).
// Callers pass only records inside the week.
func BuildWeeklyStats(start, end time.Time, notes []*models.ShiftNote, readings []*models.EquipmentReading) WeeklyStats {
	stats := WeeklyStats{
		Start:        start,
		End:          end,
		Counts:       CountNotes(notes),
		ByShift:      make(map[models.Shift]int, len(models.AllShifts)),
		ReadingCount: len(readings),
	}
	for _, s := range models.AllShifts {
		stats.ByShift[s] = 0
	}

	units := make(map[string]int)
	for _, n := range NewestFirst(notes) {
		stats.ByShift[n.Shift]++
		units[n.Unit]++
		if n.Priority == models.PriorityCritical || n.Priority == models.PriorityHigh {
			stats.Urgent = append(stats.Urgent, n)
		}
	}
	for unit, count := range units {
		stats.TopUnits = append(stats.TopUnits, UnitCount{Unit: unit, Count: count})
	}
	sort.Slice(stats.TopUnits, func(i, j int) bool {
		if stats.TopUnits[i].Count != stats.TopUnits[j].Count {
			return stats.TopUnits[i].Count > stats.TopUnits[j].Count
		}
		return stats.TopUnits[i].Unit < stats.TopUnits[j].Unit
	})
	if len(stats.TopUnits) > TopUnitsLimit {
		stats.TopUnits = stats.TopUnits[:TopUnitsLimit]
	}

	incidents := make(map[string]*EquipmentIncidents)
	for _, r := range readings {
		if r.Status == models.StatusNormal {
			continue
		}
		inc, ok := incidents[r.EquipmentID]
		if !ok {
			inc = &EquipmentIncidents{EquipmentID: r.EquipmentID}
			incidents[r.EquipmentID] = inc
		}
		if r.Status == models.StatusCritical {
			inc.Critical++
		} else {
			inc.Warnings++
		}
	}
	for _, inc := range incidents {
		stats.Abnormal = append(stats.Abnormal, *inc)
	}
	sort.Slice(stats.Abnormal, func(i, j int) bool {
		return stats.Abnormal[i].EquipmentID < stats.Abnormal[j].EquipmentID
	})
	return stats
}

// WeeklySummary renders aggregated weekly statistics.
func (f *Formatter) WeeklySummary(stats WeeklyStats) string {
	var b strings.Builder
	b.WriteString(HeaderWeekly + "\n")
	fmt.Fprintf(&b, "Date: %s\n", f.date(stats.End))
	fmt.Fprintf(&b, "Period: %s → %s\n",
		stats.Start.In(f.loc).Format("2006-01-02 15:04"), stats.End.In(f.loc).Format("2006-01-02 15:04"))
	b.WriteString(Divider + "\n")

	if stats.Counts.Total == 0 && len(stats.Abnormal) == 0 {
		b.WriteString(QuietWeekMarker + "\n")
		b.WriteString("No notes or abnormal equipment readings were recorded in the last seven days.\n")
		return b.String()
	}

	b.WriteString("📊 NOTES BY CATEGORY\n")
	fmt.Fprintf(&b, "• %s\n", pluralize(stats.Counts.Maintenance, "maintenance note"))
	fmt.Fprintf(&b, "• %s\n", pluralize(stats.Counts.Alerts, "alert"))
	fmt.Fprintf(&b, "• %s\n", pluralize(stats.Counts.Status, "status update"))
	fmt.Fprintf(&b, "• %s\n", pluralize(stats.Counts.General, "general note"))
	fmt.Fprintf(&b, "• Total: %s\n\n", pluralize(stats.Counts.Total, "note"))

	b.WriteString("🕐 NOTES BY SHIFT\n")
	for _, s := range models.AllShifts {
		fmt.Fprintf(&b, "• %s: %s\n", s.DisplayName(), pluralize(stats.ByShift[s], "note"))
	}
	b.WriteString("\n")

	b.WriteString("🏭 MOST ACTIVE UNITS\n")
	if len(stats.TopUnits) == 0 {
		b.WriteString(NoneReported + "\n")
	}
	for _, u := range stats.TopUnits {
		fmt.Fprintf(&b, "• %s: %s\n", unitLabel(u.Unit), pluralize(u.Count, "note"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s (%d)\n", "🚨 CRITICAL & HIGH PRIORITY", len(stats.Urgent))
	if len(stats.Urgent) == 0 {
		b.WriteString(NoneReported + "\n")
	}
	for _, n := range stats.Urgent {
		b.WriteString(f.noteBullet(n, "01-02 15:04") + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s (%d)\n", SectionEquipment, len(stats.Abnormal))
	if len(stats.Abnormal) == 0 {
		b.WriteString(NoneReported + "\n")
	}
	for _, inc := range stats.Abnormal {
		fmt.Fprintf(&b, "• %s: %s, %d critical\n", inc.EquipmentID, pluralize(inc.Warnings, "warning"), inc.Critical)
	}
	return b.String()
}
