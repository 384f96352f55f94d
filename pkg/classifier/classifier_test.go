package classifier

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

func TestExtractUnit(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Unit 5 pump maintenance", "5"},
		{"no unit mentioned", models.GeneralUnit},
		{"U12 compressor tripped", "12"},
		{"reactor 3 temperature climbing", "3"},
		{"Pump 7 seal leaking", "7"},
		{"tower 2a level high", "2A"},
		{"UNIT-9 back online", "9"},
		{"pump maintenance scheduled", models.GeneralUnit},
		// Earlier patterns win even when a later one appears first in the text.
		{"pump 4 feeding unit 8", "8"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUnit(tt.text))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want models.NoteType
	}{
		{"pressure spike on line 2", models.NoteTypeAlert},
		{"alert: maintenance crew needed", models.NoteTypeAlert},
		{"scheduled maintenance and inspection", models.NoteTypeMaintenance},
		{"repaired the seal", models.NoteTypeMaintenance},
		{"temperature stable at 350", models.NoteTypeStatus},
		{"operating normally", models.NoteTypeStatus},
		{"coffee machine empty", models.NoteTypeGeneral},
		{"abnormal smell near the gate", models.NoteTypeGeneral},
		{"pump repairs underway", models.NoteTypeMaintenance},
		{"abnormal vibration reported", models.NoteTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text))
		})
	}
}

func TestCategorize_KeywordsMatchAtWordStart(t *testing.T) {
	// Suffixes extend a keyword; prefixes do not.
	assert.Equal(t, models.NoteTypeAlert, Categorize("warnings cleared by lead"))
	assert.Equal(t, models.NoteTypeMaintenance, Categorize("fixed the latch"))
	assert.Equal(t, models.NoteTypeGeneral, Categorize("unfixed latch on door"))
	assert.Equal(t, models.NoteTypeGeneral, Categorize("abnormally quiet night"))
}

func TestCategorize_AlertOutranksMaintenance(t *testing.T) {
	assert.Equal(t, models.NoteTypeAlert, Categorize("maintenance required after alert on pump"))
}

func TestDeterminePriority(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category models.NoteType
		want     models.Priority
	}{
		{"emergency is critical", "emergency stop pressed", models.NoteTypeAlert, models.PriorityCritical},
		{"shutdown is critical", "planned shutdown of unit 4", models.NoteTypeGeneral, models.PriorityCritical},
		{"urgent is high", "urgent: call electrician", models.NoteTypeGeneral, models.PriorityHigh},
		{"alert category is high", "pressure spike", models.NoteTypeAlert, models.PriorityHigh},
		{"maintenance category is medium", "replace filter", models.NoteTypeMaintenance, models.PriorityMedium},
		{"attention is medium", "needs attention next round", models.NoteTypeGeneral, models.PriorityMedium},
		{"default is low", "all quiet", models.NoteTypeStatus, models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeterminePriority(tt.text, tt.category))
		})
	}
}

func TestClassify_EmergencyAlwaysCritical(t *testing.T) {
	texts := []string{
		"emergency",
		"routine maintenance, emergency eyewash inspected",
		"stable operation but emergency drill at 10",
		"urgent emergency on unit 2",
	}
	for _, text := range texts {
		got := Classify(text, Overrides{})
		assert.Equal(t, models.PriorityCritical, got.Priority, text)
	}
}

func TestClassify_Overrides(t *testing.T) {
	got := Classify("pressure stable on unit 5", Overrides{Unit: "7", Type: models.NoteTypeMaintenance})
	want := Result{Unit: "7", Type: models.NoteTypeMaintenance, Priority: models.PriorityMedium}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_InvalidTypeOverrideIgnored(t *testing.T) {
	got := Classify("repair the valve on unit 3", Overrides{Type: "bogus"})
	want := Result{Unit: "3", Type: models.NoteTypeMaintenance, Priority: models.PriorityMedium}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_Total(t *testing.T) {
	for _, text := range []string{"", "   ", "¿?", "unit"} {
		got := Classify(text, Overrides{})
		assert.Equal(t, models.GeneralUnit, got.Unit)
		assert.Equal(t, models.NoteTypeGeneral, got.Type)
		assert.Equal(t, models.PriorityLow, got.Priority)
	}
}
