package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// TimetableEntryRepository persists the generated timetable for a
// department and term instance.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository constructs the repository.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

func (r *TimetableEntryRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteByDepartmentTerm clears every previously generated entry for a
// department's classes in a term instance, so a regeneration always starts
// from a clean slate.
func (r *TimetableEntryRepository) DeleteByDepartmentTerm(ctx context.Context, exec sqlx.ExtContext, departmentID, termInstance string) error {
	target := r.exec(exec)
	const query = `
DELETE FROM timetable_entries
WHERE term_instance = $2
  AND class_id IN (
    SELECT c.id FROM classes c
    JOIN semesters s ON s.id = c.semester_id
    WHERE s.department_id = $1
  )`
	if _, err := target.ExecContext(ctx, query, departmentID, termInstance); err != nil {
		return fmt.Errorf("clear timetable entries: %w", err)
	}
	return nil
}

// InsertAll bulk-inserts the entries produced by a completed run.
func (r *TimetableEntryRepository) InsertAll(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	const query = `
INSERT INTO timetable_entries
  (id, class_id, subject_id, faculty_id, time_slot_id, term_instance, is_lab_session, assistant_faculty_id, lab_session_number)
VALUES
  (:id, :class_id, :subject_id, :faculty_id, :time_slot_id, :term_instance, :is_lab_session, :assistant_faculty_id, :lab_session_number)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, entries); err != nil {
		return fmt.Errorf("insert timetable entries: %w", err)
	}
	return nil
}

// ListByClass returns the generated entries for one class in a term instance.
func (r *TimetableEntryRepository) ListByClass(ctx context.Context, classID, termInstance string) ([]models.TimetableEntry, error) {
	const query = `
SELECT id, class_id, subject_id, faculty_id, time_slot_id, term_instance, is_lab_session, assistant_faculty_id, lab_session_number
FROM timetable_entries WHERE class_id = $1 AND term_instance = $2`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, classID, termInstance); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}
