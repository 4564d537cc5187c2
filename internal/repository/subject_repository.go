package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListBySemesters returns every subject offered in the given semesters.
func (r *SubjectRepository) ListBySemesters(ctx context.Context, semesterIDs []string) ([]models.Subject, error) {
	if len(semesterIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
SELECT id, code, name, department_id, semester_id, kind, hours_per_week, credits
FROM subjects WHERE semester_id IN (?) ORDER BY code ASC`, semesterIDs)
	if err != nil {
		return nil, fmt.Errorf("build subject query: %w", err)
	}
	query = r.db.Rebind(query)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, code, name, department_id, semester_id, kind, hours_per_week, credits FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}
