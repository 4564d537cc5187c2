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

func newDepartmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDepartmentRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newDepartmentRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "is_active"}).
		AddRow("dept-1", "CSE", "Computer Science", true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, is_active FROM departments WHERE code = $1 AND is_active = TRUE")).
		WithArgs("CSE").
		WillReturnRows(rows)

	department, err := repo.FindByKey(context.Background(), "CSE")
	require.NoError(t, err)
	assert.Equal(t, "dept-1", department.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryFindByKeyWrapsError(t *testing.T) {
	db, mock, cleanup := newDepartmentRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, is_active FROM departments WHERE code = $1 AND is_active = TRUE")).
		WithArgs("MISSING").
		WillReturnError(sqlmock.ErrCancelled)

	_, err := repo.FindByKey(context.Background(), "MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find department MISSING")
	assert.NoError(t, mock.ExpectationsWereMet())
}
