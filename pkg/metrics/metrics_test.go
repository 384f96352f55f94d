package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.NoteLogged(models.NoteTypeAlert, models.PriorityCritical)
	r.NoteLogged(models.NoteTypeAlert, models.PriorityCritical)
	r.ReadingRecorded(models.StatusWarning)
	r.ReportRendered(ReportHandover)
	r.RangeOverrideWritten()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.notesLogged.WithLabelValues("alert", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.readingsRecorded.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reportsRendered.WithLabelValues("handover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rangeOverrides))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.NoteLogged(models.NoteTypeGeneral, models.PriorityLow)
		r.ReadingRecorded(models.StatusNormal)
		r.ReportRendered(ReportWeekly)
		r.RangeOverrideWritten()
	})
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.NoteLogged(models.NoteTypeMaintenance, models.PriorityMedium)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `shiftlog_notes_logged_total{priority="medium",type="maintenance"} 1`))
}
