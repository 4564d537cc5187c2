package engine

// Gene is a single (class, subject, faculty, time-slot) assignment. Lab
// subjects contribute three genes sharing class/subject/faculty and
// IsLab=true across three consecutive slots.
type Gene struct {
	ClassID            string
	SubjectID          string
	FacultyID          string
	TimeSlotID         string
	IsLab              bool
	AssistantFacultyID string // empty means no assistant
}

// Chromosome is a candidate complete timetable: an ordered gene list plus a
// cached fitness scalar written by the evaluator.
type Chromosome struct {
	Genes   []Gene
	Fitness float64
}

// Clone performs a deep copy; no gene aliasing is shared between the
// original and the copy, matching Chromosome.copy() in the reference
// implementation.
func (c *Chromosome) Clone() *Chromosome {
	genes := make([]Gene, len(c.Genes))
	copy(genes, c.Genes)
	return &Chromosome{Genes: genes, Fitness: c.Fitness}
}
