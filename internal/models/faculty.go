package models

import "strings"

// Faculty is an instructor eligible for assignment. DepartmentID is optional:
// an empty value means the faculty is shared across departments.
type Faculty struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	Rank         FacultyRank `db:"rank" json:"rank"`
	DepartmentID *string     `db:"department_id" json:"department_id,omitempty"`
	Preferences  string      `db:"preferences" json:"preferences"`
	IsActive     bool        `db:"is_active" json:"is_active"`
}

// WorkloadCap returns the maximum weekly teaching hours for this faculty's rank.
func (f Faculty) WorkloadCap() int {
	if cap, ok := WorkloadCaps[f.Rank]; ok {
		return cap
	}
	return DefaultWorkloadCap
}

// PreferenceList parses the comma-separated preference string into subject codes.
func (f Faculty) PreferenceList() []string {
	if f.Preferences == "" {
		return nil
	}
	parts := strings.Split(f.Preferences, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// FacultySubjectAssignment is a rotation-history / current-assignment record:
// which faculty taught which subject, for which class, in which term
// instance, and whether as main or assistant.
type FacultySubjectAssignment struct {
	ID           string `db:"id" json:"id"`
	FacultyID    string `db:"faculty_id" json:"faculty_id"`
	SubjectID    string `db:"subject_id" json:"subject_id"`
	ClassID      string `db:"class_id" json:"class_id"`
	TermInstance string `db:"term_instance" json:"term_instance"`
	IsMain       bool   `db:"is_main" json:"is_main"`
}
