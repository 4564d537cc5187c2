package models

// SubjectKind closes the subject_type dictionary from the source system into
// a fixed set of values.
type SubjectKind string

const (
	SubjectTheory   SubjectKind = "THEORY"
	SubjectLab      SubjectKind = "LAB"
	SubjectElective SubjectKind = "ELECTIVE"
)

// Day is one of the five teaching weekdays.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
)

// SlotKind distinguishes teaching slots from the midday break.
type SlotKind string

const (
	SlotMorning   SlotKind = "MORNING"
	SlotAfternoon SlotKind = "AFTERNOON"
	SlotLunch     SlotKind = "LUNCH"
)

// FacultyRank drives the workload cap lookup.
type FacultyRank string

const (
	RankProfessor          FacultyRank = "PROFESSOR"
	RankAssociateProfessor FacultyRank = "ASSOCIATE"
	RankAssistantProfessor FacultyRank = "ASSISTANT"
)

// DefaultWorkloadCap applies when a faculty's rank is not recognized.
const DefaultWorkloadCap = 20

// WorkloadCaps maps rank to maximum weekly teaching hours.
var WorkloadCaps = map[FacultyRank]int{
	RankProfessor:          10,
	RankAssociateProfessor: 15,
	RankAssistantProfessor: 23,
}

// SemesterParity is the active half-year cycle the engine schedules for.
type SemesterParity string

const (
	ParityOdd  SemesterParity = "ODD"
	ParityEven SemesterParity = "EVEN"
)
