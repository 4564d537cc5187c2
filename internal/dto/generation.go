package dto

// GenerateDepartmentRequest triggers a timetable generation run for one
// department, optionally restricted to a single term instance tag and/or
// semester parity. Parity is left empty when called directly for a single
// department (it is then resolved from the active SystemConfig); it is
// populated when the call originates from GenerateSemester.
type GenerateDepartmentRequest struct {
	TermInstance string `json:"termInstance" validate:"omitempty"`
	Parity       string `json:"parity" validate:"omitempty,oneof=ODD EVEN"`
}

// GenerateSemesterRequest triggers a run restricted to one semester parity
// (odd or even) for each department named in the request's "department"
// query parameters.
type GenerateSemesterRequest struct {
	Parity       string `json:"parity" validate:"required,oneof=ODD EVEN"`
	TermInstance string `json:"termInstance" validate:"omitempty"`
}

// GenerationReportDepartment identifies the department a report was
// generated for.
type GenerationReportDepartment struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// GenerationReportClass summarizes one class section's share of a run.
type GenerationReportClass struct {
	ClassName  string `json:"class_name"`
	EntryCount int    `json:"entry_count"`
}

// GenerationReportSemester summarizes one semester's classes within a run.
type GenerationReportSemester struct {
	SemesterNumber int                              `json:"semester_number"`
	SemesterName   string                            `json:"semester_name"`
	Classes        map[string]GenerationReportClass `json:"classes"`
}

// GenerationReport mirrors engine.Report for the HTTP surface, per
// spec.md §6's generate_department Report shape.
type GenerationReport struct {
	Success        bool                                `json:"success"`
	Error          string                              `json:"error,omitempty"`
	Department     GenerationReportDepartment          `json:"department"`
	Timetables     map[string]GenerationReportSemester `json:"timetables"`
	TotalEntries   int                                 `json:"total_entries"`
	ClassesCount   int                                 `json:"classes_count"`
	SemestersCount int                                 `json:"semesters_count"`
	FinalFitness   float64                             `json:"final_fitness"`
	GenerationsRun int                                 `json:"generations_run"`
}

// GenerateSemesterResponse aggregates one report per department processed.
type GenerateSemesterResponse struct {
	Parity  string              `json:"parity"`
	Reports []GenerationReport `json:"reports"`
}
