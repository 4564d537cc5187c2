package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// FacultyAssignmentRepository persists which faculty teach which
// subject/class pairs in a term instance.
type FacultyAssignmentRepository struct {
	db *sqlx.DB
}

// NewFacultyAssignmentRepository constructs the repository.
func NewFacultyAssignmentRepository(db *sqlx.DB) *FacultyAssignmentRepository {
	return &FacultyAssignmentRepository{db: db}
}

func (r *FacultyAssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByFacultyDepartment returns every assignment for faculty in a
// department, across all term instances except the one currently being
// generated, for use as rotation history.
func (r *FacultyAssignmentRepository) ListByFacultyDepartment(ctx context.Context, departmentID string, excludeTermInstance string) ([]models.FacultySubjectAssignment, error) {
	const query = `
SELECT fa.id, fa.faculty_id, fa.subject_id, fa.class_id, fa.term_instance, fa.is_main
FROM faculty_assignments fa
JOIN faculty f ON f.id = fa.faculty_id
WHERE f.department_id = $1 AND fa.term_instance <> $2`
	var assignments []models.FacultySubjectAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, departmentID, excludeTermInstance); err != nil {
		return nil, fmt.Errorf("list faculty assignment history: %w", err)
	}
	return assignments, nil
}

// Upsert inserts one faculty-subject-class assignment for a term instance.
// If a row with the same faculty, subject, class and term instance already
// exists, it is left unchanged.
func (r *FacultyAssignmentRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, assignment *models.FacultySubjectAssignment) error {
	target := r.exec(exec)
	const query = `
INSERT INTO faculty_assignments (id, faculty_id, subject_id, class_id, term_instance, is_main)
VALUES (:id, :faculty_id, :subject_id, :class_id, :term_instance, :is_main)
ON CONFLICT (faculty_id, subject_id, class_id, term_instance) DO NOTHING`
	if _, err := sqlx.NamedExecContext(ctx, target, query, assignment); err != nil {
		return fmt.Errorf("upsert faculty assignment: %w", err)
	}
	return nil
}
