package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// ClassRepository manages persistence for class sections.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListBySemesters returns every class section belonging to the given
// semesters. An empty slice returns no rows rather than every class.
func (r *ClassRepository) ListBySemesters(ctx context.Context, semesterIDs []string) ([]models.ClassSection, error) {
	if len(semesterIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, semester_id, capacity FROM classes WHERE semester_id IN (?) ORDER BY name ASC`, semesterIDs)
	if err != nil {
		return nil, fmt.Errorf("build class section query: %w", err)
	}
	query = r.db.Rebind(query)
	var classes []models.ClassSection
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list class sections: %w", err)
	}
	return classes, nil
}

// FindByID returns a class section by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	const query = `SELECT id, name, semester_id, capacity FROM classes WHERE id = $1`
	var class models.ClassSection
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}
