package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

func newTimetableEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableEntryRepositoryDeleteByDepartmentTerm(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries")).
		WithArgs("dept-1", "2024-ODD").
		WillReturnResult(sqlmock.NewResult(0, 12))

	err := repo.DeleteByDepartmentTerm(context.Background(), nil, "dept-1", "2024-ODD")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryInsertAllSkipsEmpty(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	err := repo.InsertAll(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryInsertAll(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entries := []models.TimetableEntry{
		{ID: "entry-1", ClassID: "class-1", SubjectID: "sub-1", FacultyID: "fac-1", TimeSlotID: "slot-1", TermInstance: "2024-ODD"},
	}
	err := repo.InsertAll(context.Background(), nil, entries)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "subject_id", "faculty_id", "time_slot_id", "term_instance", "is_lab_session", "assistant_faculty_id", "lab_session_number"}).
		AddRow("entry-1", "class-1", "sub-1", "fac-1", "slot-1", "2024-ODD", false, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE class_id = $1 AND term_instance = $2")).
		WithArgs("class-1", "2024-ODD").
		WillReturnRows(rows)

	entries, err := repo.ListByClass(context.Background(), "class-1", "2024-ODD")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsLabSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}
