package engine

import (
	"context"
	"fmt"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// DepartmentReader resolves a department by its stable key.
type DepartmentReader interface {
	FindByKey(ctx context.Context, key string) (*models.Department, error)
}

// SemesterReader lists the semesters belonging to a department.
type SemesterReader interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Semester, error)
}

// ClassReader lists class sections belonging to a set of semesters.
type ClassReader interface {
	ListBySemesters(ctx context.Context, semesterIDs []string) ([]models.ClassSection, error)
}

// SubjectReader lists subjects offered by a department, per semester.
type SubjectReader interface {
	ListBySemesters(ctx context.Context, semesterIDs []string) ([]models.Subject, error)
}

// FacultyReader lists active faculty in a department, with a fallback to
// every active faculty across all departments when a department has none of its own.
type FacultyReader interface {
	ListActiveByDepartment(ctx context.Context, departmentID string) ([]models.Faculty, error)
	ListActive(ctx context.Context) ([]models.Faculty, error)
}

// TimeSlotReader lists the fixed weekly time slots.
type TimeSlotReader interface {
	ListTeaching(ctx context.Context) ([]models.TimeSlot, error)
}

// AssignmentReader supplies prior-term teaching history for rotation scoring.
type AssignmentReader interface {
	ListByFacultyDepartment(ctx context.Context, departmentID string, excludeTermInstance string) ([]models.FacultySubjectAssignment, error)
}

// Loader assembles a Problem from narrow per-consumer repository interfaces,
// mirroring the constructor-injection style the service layer uses
// throughout the rest of the codebase.
type Loader struct {
	departments DepartmentReader
	semesters   SemesterReader
	classes     ClassReader
	subjects    SubjectReader
	faculties   FacultyReader
	timeSlots   TimeSlotReader
	assignments AssignmentReader
}

// NewLoader builds a Loader from its dependencies.
func NewLoader(
	departments DepartmentReader,
	semesters SemesterReader,
	classes ClassReader,
	subjects SubjectReader,
	faculties FacultyReader,
	timeSlots TimeSlotReader,
	assignments AssignmentReader,
) *Loader {
	return &Loader{
		departments: departments,
		semesters:   semesters,
		classes:     classes,
		subjects:    subjects,
		faculties:   faculties,
		timeSlots:   timeSlots,
		assignments: assignments,
	}
}

// LoadDepartment assembles a Problem scoped to one department and term
// instance, restricted to the given semester parity (nil means all
// semesters in the department).
func (l *Loader) LoadDepartment(ctx context.Context, departmentKey, termInstance string, parity *models.SemesterParity) (*Problem, error) {
	department, err := l.departments.FindByKey(ctx, departmentKey)
	if err != nil {
		return nil, fmt.Errorf("load department %s: %w", departmentKey, err)
	}

	allSemesters, err := l.semesters.ListByDepartment(ctx, department.ID)
	if err != nil {
		return nil, fmt.Errorf("load semesters: %w", err)
	}

	var semesterIDs []string
	var semesters []models.Semester
	for _, s := range allSemesters {
		if parity == nil || s.Parity() == *parity {
			semesterIDs = append(semesterIDs, s.ID)
			semesters = append(semesters, s)
		}
	}

	classes, err := l.classes.ListBySemesters(ctx, semesterIDs)
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}

	subjects, err := l.subjects.ListBySemesters(ctx, semesterIDs)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	faculties, err := l.faculties.ListActiveByDepartment(ctx, department.ID)
	if err != nil {
		return nil, fmt.Errorf("load faculty: %w", err)
	}
	if len(faculties) == 0 {
		faculties, err = l.faculties.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("load faculty: %w", err)
		}
	}

	timeSlots, err := l.timeSlots.ListTeaching(ctx)
	if err != nil {
		return nil, fmt.Errorf("load time slots: %w", err)
	}

	assignments, err := l.assignments.ListByFacultyDepartment(ctx, department.ID, termInstance)
	if err != nil {
		return nil, fmt.Errorf("load teaching history: %w", err)
	}

	subjectByID := make(map[string]models.Subject, len(subjects))
	for _, s := range subjects {
		subjectByID[s.ID] = s
	}

	classSubjects := make(map[string][]string)
	for _, c := range classes {
		for _, s := range subjects {
			if s.SemesterID == c.SemesterID {
				classSubjects[c.ID] = append(classSubjects[c.ID], s.ID)
			}
		}
	}

	preferences := make(map[string][]string, len(faculties))
	workloadCap := make(map[string]int, len(faculties))
	for _, f := range faculties {
		preferences[f.ID] = f.PreferenceList()
		workloadCap[f.ID] = f.WorkloadCap()
	}

	history := make(map[string][]string)
	for _, a := range assignments {
		if subject, ok := subjectByID[a.SubjectID]; ok {
			history[a.FacultyID] = append(history[a.FacultyID], subject.Code)
		}
	}

	problem := &Problem{
		DepartmentKey: departmentKey,
		TermInstance:  termInstance,
		Semesters:     semesters,
		Classes:       classes,
		Subjects:      subjects,
		Faculties:     faculties,
		TimeSlots:     timeSlots,
		Preferences:   preferences,
		History:       history,
		WorkloadCap:   workloadCap,
		ClassSubjects: classSubjects,
	}
	problem.index()

	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return problem, nil
}
