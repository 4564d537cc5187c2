package engine

import (
	"sort"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

const maxLabsPerClass = 2

// initialPopulation seeds cfg.PopulationSize random chromosomes, each built
// by placing lab subjects first (they need a contiguous three-period block)
// and then filling theory subjects into whatever slots remain free.
func (s *Search) initialPopulation(problem *Problem) []*Chromosome {
	population := make([]*Chromosome, s.cfg.PopulationSize)
	for i := range population {
		population[i] = s.createRandomChromosome(problem)
	}
	return population
}

func (s *Search) createRandomChromosome(problem *Problem) *Chromosome {
	var genes []Gene

	for _, class := range problem.Classes {
		used := make(map[string]struct{})
		labCount := 0

		subjectIDs := append([]string(nil), problem.ClassSubjects[class.ID]...)
		var labSubjects, theorySubjects []models.Subject
		for _, id := range subjectIDs {
			subject, ok := problem.Subject(id)
			if !ok {
				continue
			}
			if subject.IsLab() {
				labSubjects = append(labSubjects, subject)
			} else {
				theorySubjects = append(theorySubjects, subject)
			}
		}

		for _, subject := range labSubjects {
			if labCount >= maxLabsPerClass {
				break
			}
			slots := s.findLabSlots(problem, used)
			if len(slots) != 3 {
				continue
			}
			eligible := eligibleFacultyForSubject(problem, subject)
			if len(eligible) == 0 {
				continue
			}
			facultyID, assistantID := s.pickLabFaculty(eligible)
			for _, slotID := range slots {
				used[slotID] = struct{}{}
				genes = append(genes, Gene{
					ClassID:            class.ID,
					SubjectID:          subject.ID,
					FacultyID:          facultyID,
					AssistantFacultyID: assistantID,
					TimeSlotID:         slotID,
					IsLab:              true,
				})
			}
			labCount++
		}

		free := s.shuffledFreeSlots(problem, used)
		freeIdx := 0
		for _, subject := range theorySubjects {
			hours := subject.HoursPerWeek
			if hours <= 0 {
				hours = 1
			}
			eligible := eligibleFacultyForSubject(problem, subject)
			if len(eligible) == 0 {
				continue
			}
			facultyID := eligible[s.rng.Intn(len(eligible))]
			for h := 0; h < hours && freeIdx < len(free); h++ {
				slotID := free[freeIdx]
				freeIdx++
				used[slotID] = struct{}{}
				genes = append(genes, Gene{
					ClassID:    class.ID,
					SubjectID:  subject.ID,
					FacultyID:  facultyID,
					TimeSlotID: slotID,
					IsLab:      false,
				})
			}
		}
	}

	return &Chromosome{Genes: genes}
}

// findLabSlots groups the class's unused time slots by day and tries the
// morning block {1,2,3}, then the afternoon block {5,6,7}; failing both, it
// falls back to any 3 same-day consecutive periods.
func (s *Search) findLabSlots(problem *Problem, used map[string]struct{}) []string {
	byDay := make(map[models.Day][]models.TimeSlot)
	for _, ts := range problem.TimeSlots {
		if _, taken := used[ts.ID]; taken {
			continue
		}
		byDay[ts.Day] = append(byDay[ts.Day], ts)
	}

	days := make([]models.Day, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	s.rng.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })

	for _, day := range days {
		slots := byDay[day]
		sort.Slice(slots, func(i, j int) bool { return slots[i].Period < slots[j].Period })

		if ids, ok := slotsForPeriods(slots, []int{1, 2, 3}); ok {
			return ids
		}
		if ids, ok := slotsForPeriods(slots, []int{5, 6, 7}); ok {
			return ids
		}
	}

	for _, day := range days {
		slots := byDay[day]
		sort.Slice(slots, func(i, j int) bool { return slots[i].Period < slots[j].Period })
		for i := 0; i+2 < len(slots); i++ {
			if slots[i+1].Period == slots[i].Period+1 && slots[i+2].Period == slots[i+1].Period+1 {
				return []string{slots[i].ID, slots[i+1].ID, slots[i+2].ID}
			}
		}
	}

	return nil
}

func slotsForPeriods(slots []models.TimeSlot, periods []int) ([]string, bool) {
	byPeriod := make(map[int]string, len(slots))
	for _, ts := range slots {
		byPeriod[ts.Period] = ts.ID
	}
	ids := make([]string, 0, len(periods))
	for _, p := range periods {
		id, ok := byPeriod[p]
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (s *Search) shuffledFreeSlots(problem *Problem, used map[string]struct{}) []string {
	free := make([]string, 0, len(problem.TimeSlots))
	for _, ts := range problem.TimeSlots {
		if _, taken := used[ts.ID]; !taken {
			free = append(free, ts.ID)
		}
	}
	s.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	return free
}

// pickLabFaculty chooses the main faculty for a lab gene and, when at least
// two faculty are eligible, a distinct assistant. With only one eligible
// faculty the assistant is left empty.
func (s *Search) pickLabFaculty(eligible []string) (facultyID, assistantID string) {
	if len(eligible) == 1 {
		return eligible[0], ""
	}
	i := s.rng.Intn(len(eligible))
	j := s.rng.Intn(len(eligible) - 1)
	if j >= i {
		j++
	}
	return eligible[i], eligible[j]
}

// eligibleFacultyForSubject returns faculty whose preference list contains
// the subject's code, or who have no stated preferences at all. If that set
// is empty, every faculty ID in the problem is eligible.
func eligibleFacultyForSubject(problem *Problem, subject models.Subject) []string {
	var eligible []string
	for _, f := range problem.Faculties {
		prefs := problem.Preferences[f.ID]
		if len(prefs) == 0 || containsString(prefs, subject.Code) {
			eligible = append(eligible, f.ID)
		}
	}
	if len(eligible) > 0 {
		return eligible
	}
	all := make([]string, len(problem.Faculties))
	for i, f := range problem.Faculties {
		all[i] = f.ID
	}
	return all
}
