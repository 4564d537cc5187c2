package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

func marshalReport(report *Report) (types.JSONText, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

// EntryWriter persists the generated timetable entries for one department
// and term instance, replacing whatever was previously generated for that
// scope.
type EntryWriter interface {
	DeleteByDepartmentTerm(ctx context.Context, exec sqlx.ExtContext, departmentID, termInstance string) error
	InsertAll(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error
}

// AssignmentWriter upserts the faculty-subject-class assignments a run
// produces, one per gene plus one more per assisted lab gene.
type AssignmentWriter interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, assignment *models.FacultySubjectAssignment) error
}

// FitnessHistoryWriter records one row per completed run for later
// inspection of convergence behaviour across runs.
type FitnessHistoryWriter interface {
	Record(ctx context.Context, exec sqlx.ExtContext, departmentID, termInstance string, generations int, finalFitness float64, report types.JSONText) error
}

// Writer commits a Result to storage inside a single transaction: delete the
// department/term-instance's previous entries, insert the new ones, upsert
// assignments, and record a fitness-history row.
type Writer struct {
	db          *sqlx.DB
	entries     EntryWriter
	assignments AssignmentWriter
	history     FitnessHistoryWriter
}

// NewWriter builds a Writer from its dependencies.
func NewWriter(db *sqlx.DB, entries EntryWriter, assignments AssignmentWriter, history FitnessHistoryWriter) *Writer {
	return &Writer{db: db, entries: entries, assignments: assignments, history: history}
}

// ReportDepartment identifies the department a report was generated for.
type ReportDepartment struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ReportClass summarizes one class section's share of a completed run.
type ReportClass struct {
	ClassName  string `json:"class_name"`
	EntryCount int    `json:"entry_count"`
}

// ReportSemester summarizes one semester's classes within a completed run.
type ReportSemester struct {
	SemesterNumber int                    `json:"semester_number"`
	SemesterName   string                 `json:"semester_name"`
	Classes        map[string]ReportClass `json:"classes"`
}

// Report summarizes a completed run for the caller and for fitness-history
// persistence, per spec.md §6's generate_department Report shape.
type Report struct {
	Success        bool                      `json:"success"`
	Error          string                    `json:"error,omitempty"`
	Department     ReportDepartment          `json:"department"`
	Timetables     map[string]ReportSemester `json:"timetables"`
	TotalEntries   int                       `json:"total_entries"`
	ClassesCount   int                       `json:"classes_count"`
	SemestersCount int                       `json:"semesters_count"`
	FinalFitness   float64                   `json:"final_fitness"`
	GenerationsRun int                       `json:"generations_run"`
	Converged      bool                      `json:"converged"`
	TermInstance   string                    `json:"term_instance"`
}

// Commit persists the winning chromosome's genes as timetable entries and
// assignments, scoped to department/termInstance, and records a
// fitness-history row. The delete+insert pair and the assignment upserts
// happen in one transaction so a failed run never leaves a half-written
// timetable.
func (w *Writer) Commit(ctx context.Context, department *models.Department, problem *Problem, result Result) (*Report, error) {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin timetable commit: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := w.entries.DeleteByDepartmentTerm(ctx, tx, department.ID, problem.TermInstance); err != nil {
		return nil, fmt.Errorf("clear previous entries: %w", err)
	}

	labSessionSeen := make(map[string]int)
	entries := make([]models.TimetableEntry, 0, len(result.Best.Genes))
	for _, gene := range result.Best.Genes {
		entry := models.TimetableEntry{
			ID:           uuid.NewString(),
			ClassID:      gene.ClassID,
			SubjectID:    gene.SubjectID,
			FacultyID:    gene.FacultyID,
			TimeSlotID:   gene.TimeSlotID,
			TermInstance: problem.TermInstance,
			IsLabSession: gene.IsLab,
		}
		if gene.AssistantFacultyID != "" {
			assistant := gene.AssistantFacultyID
			entry.AssistantFacultyID = &assistant
		}
		if gene.IsLab {
			key := gene.ClassID + "|" + gene.SubjectID
			// Every three lab genes of a class/subject form one session.
			labSessionSeen[key]++
			session := (labSessionSeen[key] + 2) / 3
			entry.LabSessionNumber = &session
		}
		entries = append(entries, entry)

		assignment := &models.FacultySubjectAssignment{
			ID:           uuid.NewString(),
			FacultyID:    gene.FacultyID,
			SubjectID:    gene.SubjectID,
			ClassID:      gene.ClassID,
			TermInstance: problem.TermInstance,
			IsMain:       true,
		}
		if err := w.assignments.Upsert(ctx, tx, assignment); err != nil {
			return nil, fmt.Errorf("upsert faculty assignment: %w", err)
		}
		if gene.AssistantFacultyID != "" {
			assistantAssignment := &models.FacultySubjectAssignment{
				ID:           uuid.NewString(),
				FacultyID:    gene.AssistantFacultyID,
				SubjectID:    gene.SubjectID,
				ClassID:      gene.ClassID,
				TermInstance: problem.TermInstance,
				IsMain:       false,
			}
			if err := w.assignments.Upsert(ctx, tx, assistantAssignment); err != nil {
				return nil, fmt.Errorf("upsert assistant assignment: %w", err)
			}
		}
	}

	if err := w.entries.InsertAll(ctx, tx, entries); err != nil {
		return nil, fmt.Errorf("insert timetable entries: %w", err)
	}

	report := buildReport(department, problem, result, entries)
	reportJSON, err := marshalReport(report)
	if err != nil {
		return nil, fmt.Errorf("marshal run report: %w", err)
	}
	if err := w.history.Record(ctx, tx, department.ID, problem.TermInstance, result.Generations, result.Best.Fitness, reportJSON); err != nil {
		return nil, fmt.Errorf("record fitness history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit timetable: %w", err)
	}
	return report, nil
}

// buildReport groups the committed entries by semester then class, per
// spec.md §6's generate_department Report shape.
func buildReport(department *models.Department, problem *Problem, result Result, entries []models.TimetableEntry) *Report {
	entryCountByClass := make(map[string]int, len(problem.Classes))
	for _, e := range entries {
		entryCountByClass[e.ClassID]++
	}

	timetables := make(map[string]ReportSemester, len(problem.Semesters))
	for _, semester := range problem.Semesters {
		classes := make(map[string]ReportClass)
		for _, class := range problem.Classes {
			if class.SemesterID != semester.ID {
				continue
			}
			classes[class.ID] = ReportClass{
				ClassName:  class.Name,
				EntryCount: entryCountByClass[class.ID],
			}
		}
		timetables[semester.ID] = ReportSemester{
			SemesterNumber: semester.Number,
			SemesterName:   fmt.Sprintf("Semester %d", semester.Number),
			Classes:        classes,
		}
	}

	return &Report{
		Success:        true,
		Department:     ReportDepartment{Key: problem.DepartmentKey, Name: department.Name, Code: department.Code},
		Timetables:     timetables,
		TotalEntries:   len(entries),
		ClassesCount:   len(problem.Classes),
		SemestersCount: len(problem.Semesters),
		FinalFitness:   result.Best.Fitness,
		GenerationsRun: result.Generations,
		Converged:      result.Converged,
		TermInstance:   problem.TermInstance,
	}
}
