//go:build integration

package repositories

import (
	"testing"

	"github.com/ekaya-inc/shiftlog/pkg/testhelpers"
)

func TestNoteRepository_Postgres(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testDB.Truncate(t)
	testNoteRepository(t, NewNoteRepository(testDB.DB))
}

func TestReadingRepository_Postgres(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testDB.Truncate(t)
	testReadingRepository(t, NewReadingRepository(testDB.DB))
}

func TestRangeRepository_Postgres(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testDB.Truncate(t)
	testRangeRepository(t, NewRangeRepository(testDB.DB))
}
