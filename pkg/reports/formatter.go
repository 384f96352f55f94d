// Package reports renders shift notes and equipment readings into the fixed
// text layouts consumed by operators and downstream displays. Rendering is
// pure: the same inputs always produce byte-identical output.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"

	"github.com/ekaya-inc/shiftlog/pkg/models"
	"github.com/ekaya-inc/shiftlog/pkg/services/evaluation"
	"github.com/ekaya-inc/shiftlog/pkg/shiftclock"
)

// Literal markers. Display consumers match on these, so they must not change.
const (
	Divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

	HeaderStatus   = "📋 CURRENT SHIFT STATUS"
	HeaderPrevious = "📋 PREVIOUS SHIFT REPORT"
	HeaderHandover = "🔄 SHIFT HANDOVER SUMMARY"
	HeaderWeekly   = "📅 WEEKLY SUMMARY"

	SectionMaintenance = "🔧 MAINTENANCE"
	SectionAlerts      = "🚨 ALERTS"
	SectionStatus      = "📊 STATUS UPDATES"
	SectionGeneral     = "📝 GENERAL NOTES"
	SectionEquipment   = "⚙️ EQUIPMENT READINGS"
	SectionPending     = "⚠️ PENDING ACTION ITEMS"
	SectionStatistics  = "📈 SHIFT STATISTICS"

	NoneReported = "• None reported"

	QuietShiftMarker = "✨ QUIET SHIFT"
	QuietWeekMarker  = "✨ QUIET WEEK"
)

// DefaultSectionLimit caps bullets per section unless ShowAll is requested.
const DefaultSectionLimit = 10

// Formatter renders reports with timestamps in the facility time zone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter returns a Formatter for loc. A nil location means UTC.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// StatusInput is the data behind a current-shift status query.
type StatusInput struct {
	Window  shiftclock.Window
	Notes   []*models.ShiftNote
	Unit    string
	Type    models.NoteType
	ShowAll bool
}

// StatusSummary renders the current shift status for the filtered notes.
func (f *Formatter) StatusSummary(in StatusInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", HeaderStatus, shiftLabel(in.Window.Shift))
	fmt.Fprintf(&b, "Date: %s\n", f.date(in.Window.Start))
	if filters := describeFilters(in.Unit, in.Type); filters != "" {
		fmt.Fprintf(&b, "Filters: %s\n", filters)
	}
	fmt.Fprintf(&b, "Next handover: %s\n", in.Window.End.In(f.loc).Format("15:04"))
	b.WriteString(Divider + "\n")

	if len(in.Notes) == 0 {
		f.writeQuietShift(&b, "No notes have been logged so far this shift matching the current filters.")
		return b.String()
	}

	limit := DefaultSectionLimit
	if in.ShowAll {
		limit = 0
	}
	f.writeShiftBody(&b, NewestFirst(in.Notes), limit)
	return b.String()
}

// PreviousShiftReport renders the report for a completed shift occurrence.
func (f *Formatter) PreviousShiftReport(w shiftclock.Window, notes []*models.ShiftNote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", HeaderPrevious, shiftLabel(w.Shift))
	fmt.Fprintf(&b, "Date: %s\n", f.date(w.Start))
	b.WriteString(Divider + "\n")

	if len(notes) == 0 {
		f.writeQuietShift(&b, fmt.Sprintf("No notes were logged during the %s shift.", strings.ToLower(w.Shift.DisplayName())))
		return b.String()
	}

	f.writeShiftBody(&b, NewestFirst(notes), 0)
	return b.String()
}

// HandoverSummary renders the handover from the shift in w to the next shift.
// Abnormal readings recorded in the window are listed alongside the notes.
func (f *Formatter) HandoverSummary(w shiftclock.Window, notes []*models.ShiftNote, abnormal []*models.EquipmentReading) string {
	var b strings.Builder
	b.WriteString(HeaderHandover + "\n")
	fmt.Fprintf(&b, "From: %s → To: %s\n", shiftLabel(w.Shift), shiftLabel(shiftclock.NextShift(w.Shift)))
	fmt.Fprintf(&b, "Date: %s\n", f.date(w.Start))
	b.WriteString(Divider + "\n")

	if len(notes) == 0 {
		f.writeQuietShift(&b, fmt.Sprintf("The %s shift is handing over with no logged notes.", strings.ToLower(w.Shift.DisplayName())))
		if len(abnormal) > 0 {
			b.WriteString("\n")
			f.writeEquipment(&b, ReadingsNewestFirst(abnormal))
		}
		return b.String()
	}

	ordered := NewestFirst(notes)
	f.writeCategorySections(&b, ordered, 0)
	f.writeEquipment(&b, ReadingsNewestFirst(abnormal))
	f.writePending(&b, ordered, 0)
	f.writeStatistics(&b, CountNotes(notes))
	return b.String()
}

// writeShiftBody renders the standard template: category sections, pending
// items and the statistics block.
func (f *Formatter) writeShiftBody(b *strings.Builder, ordered []*models.ShiftNote, limit int) {
	f.writeCategorySections(b, ordered, limit)
	f.writePending(b, ordered, limit)
	f.writeStatistics(b, CountNotes(ordered))
}

func (f *Formatter) writeCategorySections(b *strings.Builder, ordered []*models.ShiftNote, limit int) {
	f.writeNoteSection(b, SectionMaintenance, notesOfType(ordered, models.NoteTypeMaintenance), limit)
	f.writeNoteSection(b, SectionAlerts, notesOfType(ordered, models.NoteTypeAlert), limit)
	f.writeNoteSection(b, SectionStatus, notesOfType(ordered, models.NoteTypeStatus), limit)
	f.writeNoteSection(b, SectionGeneral, notesOfType(ordered, models.NoteTypeGeneral), limit)
}

func (f *Formatter) writePending(b *strings.Builder, ordered []*models.ShiftNote, limit int) {
	f.writeNoteSection(b, SectionPending, PendingNotes(ordered), limit)
}

func (f *Formatter) writeNoteSection(b *strings.Builder, title string, notes []*models.ShiftNote, limit int) {
	fmt.Fprintf(b, "%s (%d)\n", title, len(notes))
	if len(notes) == 0 {
		b.WriteString(NoneReported + "\n\n")
		return
	}
	shown := notes
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, n := range shown {
		b.WriteString(f.noteBullet(n, "15:04") + "\n")
	}
	if hidden := len(notes) - len(shown); hidden > 0 {
		fmt.Fprintf(b, "• … and %d more (use show_all to list everything)\n", hidden)
	}
	b.WriteString("\n")
}

func (f *Formatter) writeEquipment(b *strings.Builder, readings []*models.EquipmentReading) {
	fmt.Fprintf(b, "%s (%d)\n", SectionEquipment, len(readings))
	if len(readings) == 0 {
		b.WriteString(NoneReported + "\n\n")
		return
	}
	for _, r := range readings {
		b.WriteString(f.readingBullet(r) + "\n")
	}
	b.WriteString("\n")
}

func (f *Formatter) writeStatistics(b *strings.Builder, c Counts) {
	b.WriteString(Divider + "\n")
	b.WriteString(SectionStatistics + "\n")
	fmt.Fprintf(b, "• %s\n", pluralize(c.Maintenance, "maintenance note"))
	fmt.Fprintf(b, "• %s\n", pluralize(c.Alerts, "alert"))
	fmt.Fprintf(b, "• %s\n", pluralize(c.Status, "status update"))
	fmt.Fprintf(b, "• %s\n", pluralize(c.General, "general note"))
	fmt.Fprintf(b, "• Total: %s\n", pluralize(c.Total, "note"))
	fmt.Fprintf(b, "• Pending: %s\n", pluralize(c.Pending, "action item"))
}

// writeQuietShift is the zero-notes rendering. It deliberately replaces the
// section and statistics template rather than rendering empty sections.
func (f *Formatter) writeQuietShift(b *strings.Builder, lead string) {
	b.WriteString(QuietShiftMarker + "\n")
	b.WriteString(lead + "\n")
	b.WriteString("No maintenance work, alerts or status changes were reported, and there are no pending action items to carry over.\n")
	b.WriteString("Continue standard monitoring rounds and log anything unusual as it happens.\n")
}

func (f *Formatter) noteBullet(n *models.ShiftNote, timeLayout string) string {
	return fmt.Sprintf("• [%s] %s: %s (%s)",
		n.Timestamp.In(f.loc).Format(timeLayout), unitLabel(n.Unit), n.Note, strings.ToUpper(string(n.Priority)))
}

func (f *Formatter) readingBullet(r *models.EquipmentReading) string {
	return fmt.Sprintf("• [%s] %s %s: %s %s %s %s (deviation %.1f%%)",
		r.Timestamp.In(f.loc).Format("15:04"), r.EquipmentID, r.Parameter,
		formatValue(r.Value), r.UOM, evaluation.StatusIcon(r.Status), strings.ToUpper(string(r.Status)), r.Deviation)
}

func (f *Formatter) date(t time.Time) string {
	return t.In(f.loc).Format("2006-01-02")
}

func shiftLabel(s models.Shift) string {
	return fmt.Sprintf("%s SHIFT (%s)", s.DisplayName(), s.TimeRange())
}

func unitLabel(unit string) string {
	if unit == "" || unit == models.GeneralUnit {
		return models.GeneralUnit
	}
	return "Unit " + unit
}

func describeFilters(unit string, t models.NoteType) string {
	var parts []string
	if unit != "" {
		parts = append(parts, "unit="+unit)
	}
	if t != "" {
		parts = append(parts, "type="+string(t))
	}
	return strings.Join(parts, ", ")
}

// pluralize renders "1 alert" / "3 alerts".
func pluralize(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func formatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
