package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryListBySemestersEmptyInputSkipsQuery(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	classes, err := repo.ListBySemesters(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListBySemesters(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "semester_id", "capacity"}).
		AddRow("class-1", "S5-A", "sem-5", 60)
	// sqlx knows no bindtype for the "sqlmock" driver name, so Rebind leaves
	// sqlx.In's "?" placeholders as they are rather than turning them into "$1".
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, semester_id, capacity FROM classes WHERE semester_id IN (?) ORDER BY name ASC")).
		WithArgs("sem-5").
		WillReturnRows(rows)

	classes, err := repo.ListBySemesters(context.Background(), []string{"sem-5"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "S5-A", classes[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "semester_id", "capacity"}).
		AddRow("class-1", "S5-A", "sem-5", 60)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, semester_id, capacity FROM classes WHERE id = $1")).
		WithArgs("class-1").
		WillReturnRows(rows)

	class, err := repo.FindByID(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Equal(t, 60, class.Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
