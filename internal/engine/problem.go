package engine

import (
	"github.com/ktuplanner/timetable-engine/internal/models"
	appErrors "github.com/ktuplanner/timetable-engine/pkg/errors"
)

// TeachingSlotCount is the fixed number of weekly teaching periods (7
// periods x 5 days) the loader requires before a run can proceed.
const TeachingSlotCount = 35

// Problem is the immutable, self-contained snapshot the Evolutionary Search
// operates over. Nothing in engine holds a live reference back into the
// store once a Problem has been loaded.
type Problem struct {
	DepartmentKey string
	TermInstance  string

	Semesters []models.Semester
	Classes   []models.ClassSection
	Subjects  []models.Subject
	Faculties []models.Faculty
	TimeSlots []models.TimeSlot

	// Preferences maps faculty ID to preferred subject codes.
	Preferences map[string][]string
	// History maps faculty ID to subject codes taught in other term instances.
	History map[string][]string
	// WorkloadCap maps faculty ID to maximum weekly hours.
	WorkloadCap map[string]int
	// ClassSubjects maps class ID to the subject IDs offered in its semester.
	ClassSubjects map[string][]string

	subjectByID  map[string]models.Subject
	timeSlotByID map[string]models.TimeSlot
}

// Subject looks up a subject by ID.
func (p *Problem) Subject(id string) (models.Subject, bool) {
	s, ok := p.subjectByID[id]
	return s, ok
}

// TimeSlot looks up a time slot by ID.
func (p *Problem) TimeSlot(id string) (models.TimeSlot, bool) {
	ts, ok := p.timeSlotByID[id]
	return ts, ok
}

// Validate checks the invariants the loader must enforce before a search can
// begin, per the ConfigurationError taxonomy.
func (p *Problem) Validate() error {
	if len(p.TimeSlots) != TeachingSlotCount {
		return appErrors.Clone(appErrors.ErrValidation, "expected 35 teaching slots")
	}
	if len(p.Classes) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no classes found for the requested department and term parity")
	}
	if len(p.Subjects) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no subjects found for the requested department")
	}
	if len(p.Faculties) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no active faculty available")
	}
	return nil
}

// index builds the internal ID->value lookup maps. Called once by the
// loader after assembling a Problem.
func (p *Problem) index() {
	p.subjectByID = make(map[string]models.Subject, len(p.Subjects))
	for _, s := range p.Subjects {
		p.subjectByID[s.ID] = s
	}
	p.timeSlotByID = make(map[string]models.TimeSlot, len(p.TimeSlots))
	for _, ts := range p.TimeSlots {
		p.timeSlotByID[ts.ID] = ts
	}
}
