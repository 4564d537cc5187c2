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

func newFacultyAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestFacultyAssignmentRepositoryListByFacultyDepartment(t *testing.T) {
	db, mock, cleanup := newFacultyAssignmentRepoMock(t)
	defer cleanup()
	repo := NewFacultyAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "faculty_id", "subject_id", "class_id", "term_instance", "is_main"}).
		AddRow("assign-1", "fac-1", "sub-1", "class-1", "2023-ODD", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM faculty_assignments fa\nJOIN faculty f ON f.id = fa.faculty_id\nWHERE f.department_id = $1 AND fa.term_instance <> $2")).
		WithArgs("dept-1", "2024-ODD").
		WillReturnRows(rows)

	assignments, err := repo.ListByFacultyDepartment(context.Background(), "dept-1", "2024-ODD")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "sub-1", assignments[0].SubjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyAssignmentRepositoryUpsertUsesSharedDBWhenExecNil(t *testing.T) {
	db, mock, cleanup := newFacultyAssignmentRepoMock(t)
	defer cleanup()
	repo := NewFacultyAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO faculty_assignments")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), nil, &models.FacultySubjectAssignment{
		ID: "assign-1", FacultyID: "fac-1", SubjectID: "sub-1", ClassID: "class-1", TermInstance: "2024-ODD", IsMain: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyAssignmentRepositoryUpsertUsesProvidedTx(t *testing.T) {
	db, mock, cleanup := newFacultyAssignmentRepoMock(t)
	defer cleanup()
	repo := NewFacultyAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO faculty_assignments")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	err = repo.Upsert(context.Background(), tx, &models.FacultySubjectAssignment{
		ID: "assign-2", FacultyID: "fac-2", SubjectID: "sub-2", ClassID: "class-2", TermInstance: "2024-ODD",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
