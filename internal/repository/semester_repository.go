package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// SemesterRepository lists the semesters belonging to a department.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// ListByDepartment returns every semester (1 through 8) defined for a department.
func (r *SemesterRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Semester, error) {
	const query = `SELECT id, number, department_id FROM semesters WHERE department_id = $1 ORDER BY number ASC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, departmentID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}
