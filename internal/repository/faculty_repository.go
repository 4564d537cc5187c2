package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// FacultyRepository manages persistence for faculty members.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// ListActiveByDepartment returns every active faculty member attached to a
// department, plus any active faculty with no department of their own
// (shared/floating faculty available to every department).
func (r *FacultyRepository) ListActiveByDepartment(ctx context.Context, departmentID string) ([]models.Faculty, error) {
	const query = `
SELECT id, name, email, rank, department_id, preferences, is_active
FROM faculty WHERE (department_id = $1 OR department_id IS NULL) AND is_active = TRUE ORDER BY name ASC`
	var faculties []models.Faculty
	if err := r.db.SelectContext(ctx, &faculties, query, departmentID); err != nil {
		return nil, fmt.Errorf("list active faculty: %w", err)
	}
	return faculties, nil
}

// ListActive returns every active faculty member across all departments. Used as a
// fallback when a department has no faculty of its own or shared.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]models.Faculty, error) {
	const query = `
SELECT id, name, email, rank, department_id, preferences, is_active
FROM faculty WHERE is_active = TRUE ORDER BY name ASC`
	var faculties []models.Faculty
	if err := r.db.SelectContext(ctx, &faculties, query); err != nil {
		return nil, fmt.Errorf("list active faculty: %w", err)
	}
	return faculties, nil
}

// FindByID fetches a faculty member by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	const query = `SELECT id, name, email, rank, department_id, preferences, is_active FROM faculty WHERE id = $1`
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}
