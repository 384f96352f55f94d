package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

var contractBase = time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

func newNote(offset time.Duration, shift models.Shift, unit, text string, t models.NoteType) *models.ShiftNote {
	return &models.ShiftNote{
		ID:        uuid.New(),
		Timestamp: contractBase.Add(offset),
		Shift:     shift,
		Unit:      unit,
		Note:      text,
		Type:      t,
		Priority:  models.PriorityMedium,
	}
}

func newReading(offset time.Duration, id string, value float64, status models.ReadingStatus) *models.EquipmentReading {
	return &models.EquipmentReading{
		ID:            uuid.New(),
		Timestamp:     contractBase.Add(offset),
		Shift:         models.ShiftDay,
		EquipmentID:   id,
		EquipmentType: models.EquipmentPump,
		Unit:          "5",
		Parameter:     models.ParamPressure,
		Value:         value,
		UOM:           "psi",
		NormalMin:     50,
		NormalMax:     150,
		CriticalMin:   25,
		CriticalMax:   200,
		Status:        status,
	}
}

func noteTexts(notes []*models.ShiftNote) []string {
	texts := make([]string, len(notes))
	for i, n := range notes {
		texts[i] = n.Note
	}
	return texts
}

func readingValues(readings []*models.EquipmentReading) []float64 {
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Value
	}
	return values
}

// testNoteRepository exercises behavior every NoteRepository must share.
func testNoteRepository(t *testing.T, repo NoteRepository) {
	ctx := context.Background()

	notes := []*models.ShiftNote{
		newNote(time.Hour, models.ShiftDay, "5", "pump seal replaced", models.NoteTypeMaintenance),
		newNote(2*time.Hour, models.ShiftDay, "12", "high level alarm", models.NoteTypeAlert),
		newNote(3*time.Hour, models.ShiftDay, models.GeneralUnit, "all quiet", models.NoteTypeGeneral),
		newNote(9*time.Hour, models.ShiftAfternoon, "5", "startup complete", models.NoteTypeStatus),
	}
	for _, n := range notes {
		require.NoError(t, repo.Append(ctx, n))
	}

	t.Run("insertion order", func(t *testing.T) {
		got, err := repo.Query(ctx, models.NoteFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"pump seal replaced", "high level alarm", "all quiet", "startup complete"}, noteTexts(got))
	})

	t.Run("shift and type", func(t *testing.T) {
		got, err := repo.Query(ctx, models.NoteFilter{Shift: models.ShiftDay, Type: models.NoteTypeAlert})
		require.NoError(t, err)
		assert.Equal(t, []string{"high level alarm"}, noteTexts(got))
	})

	t.Run("unit digits match", func(t *testing.T) {
		got, err := repo.Query(ctx, models.NoteFilter{Unit: "Unit 5"})
		require.NoError(t, err)
		assert.Equal(t, []string{"pump seal replaced", "startup complete"}, noteTexts(got))
	})

	t.Run("unit literal match is case insensitive", func(t *testing.T) {
		got, err := repo.Query(ctx, models.NoteFilter{Unit: "general"})
		require.NoError(t, err)
		assert.Equal(t, []string{"all quiet"}, noteTexts(got))
	})

	t.Run("half-open time window", func(t *testing.T) {
		since := contractBase.Add(2 * time.Hour)
		until := contractBase.Add(9 * time.Hour)
		got, err := repo.Query(ctx, models.NoteFilter{Since: &since, Until: &until})
		require.NoError(t, err)
		assert.Equal(t, []string{"high level alarm", "all quiet"}, noteTexts(got))
	})
}

// testReadingRepository exercises behavior every ReadingRepository must share.
func testReadingRepository(t *testing.T, repo ReadingRepository) {
	ctx := context.Background()

	readings := []*models.EquipmentReading{
		newReading(time.Hour, "P-101", 100, models.StatusNormal),
		newReading(2*time.Hour, "P-102", 175, models.StatusWarning),
		newReading(3*time.Hour, "P-101", 110, models.StatusNormal),
		newReading(4*time.Hour, "P-101", 220, models.StatusCritical),
	}
	readings[3].Operator = "jsmith"
	for _, r := range readings {
		require.NoError(t, repo.Append(ctx, r))
	}

	t.Run("equipment id is case insensitive", func(t *testing.T) {
		got, err := repo.Query(ctx, models.ReadingFilter{EquipmentID: "p-101"})
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 110, 220}, readingValues(got))
		assert.Equal(t, "jsmith", got[2].Operator)
		assert.Empty(t, got[0].Operator)
	})

	t.Run("limit keeps the most recent", func(t *testing.T) {
		got, err := repo.Query(ctx, models.ReadingFilter{EquipmentID: "P-101", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []float64{110, 220}, readingValues(got))
	})

	t.Run("abnormal only", func(t *testing.T) {
		got, err := repo.Query(ctx, models.ReadingFilter{AbnormalOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []float64{175, 220}, readingValues(got))
	})

	t.Run("since", func(t *testing.T) {
		since := contractBase.Add(3 * time.Hour)
		got, err := repo.Query(ctx, models.ReadingFilter{Since: &since})
		require.NoError(t, err)
		assert.Equal(t, []float64{110, 220}, readingValues(got))
	})

	t.Run("snapshot bounds survive", func(t *testing.T) {
		got, err := repo.Query(ctx, models.ReadingFilter{EquipmentID: "P-102"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 50.0, got[0].NormalMin)
		assert.Equal(t, 200.0, got[0].CriticalMax)
		assert.Equal(t, models.StatusWarning, got[0].Status)
	})
}

// testRangeRepository exercises behavior every RangeRepository must share.
func testRangeRepository(t *testing.T, repo RangeRepository) {
	ctx := context.Background()

	missing, err := repo.Get(ctx, "P-101", models.ParamPressure)
	require.NoError(t, err)
	assert.Nil(t, missing)

	first := models.EquipmentRange{Min: 60, Max: 140, CriticalMin: 30, CriticalMax: 180, UOM: "psi"}
	require.NoError(t, repo.Set(ctx, models.RangeOverride{EquipmentID: " p-101 ", Parameter: models.ParamPressure, Range: first}))

	second := models.EquipmentRange{Min: 70, Max: 130, CriticalMin: 40, CriticalMax: 170, UOM: "psi"}
	require.NoError(t, repo.Set(ctx, models.RangeOverride{EquipmentID: "P-101", Parameter: models.ParamPressure, Range: second}))

	got, err := repo.Get(ctx, "p-101", models.ParamPressure)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 70.0, got.Min)
	assert.Equal(t, 130.0, got.Max)
	assert.Equal(t, models.RangeSourceOverride, got.Source)

	other, err := repo.Get(ctx, "P-101", models.ParamTemperature)
	require.NoError(t, err)
	assert.Nil(t, other)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "P-101", list[0].EquipmentID)
}
