// Package metrics exposes Prometheus counters for shift activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

const namespace = "shiftlog"

// Registry owns the collectors recorded by the handover service.
type Registry struct {
	registry *prometheus.Registry

	notesLogged      *prometheus.CounterVec
	readingsRecorded *prometheus.CounterVec
	reportsRendered  *prometheus.CounterVec
	rangeOverrides   prometheus.Counter
}

// NewRegistry creates a Registry with process and Go runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		notesLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_logged_total",
			Help:      "Shift notes logged, by category and priority.",
		}, []string{"type", "priority"}),
		readingsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_recorded_total",
			Help:      "Equipment readings recorded, by evaluated status.",
		}, []string{"status"}),
		reportsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_rendered_total",
			Help:      "Reports rendered, by kind.",
		}, []string{"kind"}),
		rangeOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "range_overrides_total",
			Help:      "Equipment range overrides written.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.notesLogged,
		r.readingsRecorded,
		r.reportsRendered,
		r.rangeOverrides,
	)
	return r
}

// Report kinds.
const (
	ReportStatus   = "status"
	ReportPrevious = "previous"
	ReportHandover = "handover"
	ReportWeekly   = "weekly"
)

// NoteLogged counts a logged note. Safe on a nil Registry.
func (r *Registry) NoteLogged(t models.NoteType, p models.Priority) {
	if r == nil {
		return
	}
	r.notesLogged.WithLabelValues(string(t), string(p)).Inc()
}

// ReadingRecorded counts a recorded reading. Safe on a nil Registry.
func (r *Registry) ReadingRecorded(s models.ReadingStatus) {
	if r == nil {
		return
	}
	r.readingsRecorded.WithLabelValues(string(s)).Inc()
}

// ReportRendered counts a rendered report. Safe on a nil Registry.
func (r *Registry) ReportRendered(kind string) {
	if r == nil {
		return
	}
	r.reportsRendered.WithLabelValues(kind).Inc()
}

// RangeOverrideWritten counts a persisted range override. Safe on a nil Registry.
func (r *Registry) RangeOverrideWritten() {
	if r == nil {
		return
	}
	r.rangeOverrides.Inc()
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
