package models

// TimetableEntry is one persisted (class, subject, faculty, time-slot)
// assignment for a term instance. A TimetableEntry is exclusively owned by
// its class-section; deleting a class cascades to its entries.
type TimetableEntry struct {
	ID                 string  `db:"id" json:"id"`
	ClassID            string  `db:"class_id" json:"class_id"`
	SubjectID          string  `db:"subject_id" json:"subject_id"`
	FacultyID          string  `db:"faculty_id" json:"faculty_id"`
	TimeSlotID         string  `db:"time_slot_id" json:"time_slot_id"`
	TermInstance       string  `db:"term_instance" json:"term_instance"`
	IsLabSession       bool    `db:"is_lab_session" json:"is_lab_session"`
	AssistantFacultyID *string `db:"assistant_faculty_id" json:"assistant_faculty_id,omitempty"`
	// LabSessionNumber labels the entry "Session 1" or "Session 2" for lab
	// subjects; purely descriptive, not consulted by the fitness evaluator.
	LabSessionNumber *int `db:"lab_session_number" json:"lab_session_number,omitempty"`
}

// SystemConfig is the engine's singleton configuration: which semester
// parity is currently active, and the academic year used to build the
// term-instance tag.
type SystemConfig struct {
	ID                  string         `db:"id" json:"id"`
	ActiveSemesterType  SemesterParity `db:"active_semester_type" json:"active_semester_type"`
	CurrentAcademicYear string         `db:"current_academic_year" json:"current_academic_year"`
	PeriodsPerDay       int            `db:"periods_per_day" json:"periods_per_day"`
	DaysPerWeek         int            `db:"days_per_week" json:"days_per_week"`
}

// SemesterInstance derives the term-instance tag, e.g. "2024-ODD", from the
// academic year string's first component.
func (c SystemConfig) SemesterInstance() string {
	year := c.CurrentAcademicYear
	for i, r := range c.CurrentAcademicYear {
		if r == '-' {
			year = c.CurrentAcademicYear[:i]
			break
		}
	}
	return year + "-" + string(c.ActiveSemesterType)
}

// SemesterNumbersForParity returns the semester numbers (1..8) included in a
// department-wide run for the given parity.
func SemesterNumbersForParity(parity SemesterParity) []int {
	if parity == ParityOdd {
		return []int{1, 3, 5, 7}
	}
	return []int{2, 4, 6, 8}
}
