package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

func TestBestOfReturnsHighestFitness(t *testing.T) {
	population := []*Chromosome{
		{Fitness: -100},
		{Fitness: -5},
		{Fitness: -50},
	}
	assert.Equal(t, float64(-5), bestOf(population).Fitness)
}

func TestEliteOfReturnsTopNWithoutMutatingInput(t *testing.T) {
	population := []*Chromosome{
		{Fitness: -10},
		{Fitness: -1},
		{Fitness: -20},
	}
	elites := eliteOf(population, 2)
	require.Len(t, elites, 2)
	assert.Equal(t, float64(-1), elites[0].Fitness)
	assert.Equal(t, float64(-10), elites[1].Fitness)
	assert.Equal(t, float64(-10), population[0].Fitness) // original order untouched
}

func TestEliteOfClampsToPopulationSize(t *testing.T) {
	population := []*Chromosome{{Fitness: 1}, {Fitness: 2}}
	assert.Len(t, eliteOf(population, 10), 2)
	assert.Nil(t, eliteOf(population, 0))
}

func TestGroupByClassPartitionsGenes(t *testing.T) {
	genes := []Gene{
		{ClassID: "class-1", SubjectID: "sub-1"},
		{ClassID: "class-2", SubjectID: "sub-2"},
		{ClassID: "class-1", SubjectID: "sub-3"},
	}
	grouped := groupByClass(genes)
	assert.Len(t, grouped["class-1"], 2)
	assert.Len(t, grouped["class-2"], 1)
}

func TestCrossoverKeepsClassGenesContiguous(t *testing.T) {
	s := &Search{cfg: SearchConfig{}, rng: rand.New(rand.NewSource(3))}
	problem := &Problem{Classes: []models.ClassSection{{ID: "class-1"}, {ID: "class-2"}}}

	parentA := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", FacultyID: "a1"},
		{ClassID: "class-2", FacultyID: "a2"},
	}}
	parentB := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", FacultyID: "b1"},
		{ClassID: "class-2", FacultyID: "b2"},
	}}

	childA, childB := s.crossover(problem, parentA, parentB)
	assert.Len(t, childA.Genes, 2)
	assert.Len(t, childB.Genes, 2)

	// Every gene for a given class came from exactly one parent, for both children.
	for _, child := range []*Chromosome{childA, childB} {
		byClass := groupByClass(child.Genes)
		for classID, genes := range byClass {
			require.Len(t, genes, 1)
			faculty := genes[0].FacultyID
			assert.Contains(t, []string{"a1", "a2", "b1", "b2"}, faculty)
			_ = classID
		}
	}
}

func TestCrossoverSwapsExactlyHalfTheClassKeys(t *testing.T) {
	s := &Search{cfg: SearchConfig{}, rng: rand.New(rand.NewSource(9))}
	problem := &Problem{Classes: []models.ClassSection{
		{ID: "class-1"}, {ID: "class-2"}, {ID: "class-3"}, {ID: "class-4"},
	}}

	parentA := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", FacultyID: "a1"},
		{ClassID: "class-2", FacultyID: "a2"},
		{ClassID: "class-3", FacultyID: "a3"},
		{ClassID: "class-4", FacultyID: "a4"},
	}}
	parentB := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", FacultyID: "b1"},
		{ClassID: "class-2", FacultyID: "b2"},
		{ClassID: "class-3", FacultyID: "b3"},
		{ClassID: "class-4", FacultyID: "b4"},
	}}

	childA, _ := s.crossover(problem, parentA, parentB)
	byClass := groupByClass(childA.Genes)
	fromB := 0
	for _, classID := range []string{"class-1", "class-2", "class-3", "class-4"} {
		if byClass[classID][0].FacultyID[0] == 'b' {
			fromB++
		}
	}
	assert.Equal(t, 2, fromB)
}

func TestMutateTouchesAtMostTwoGenesPerCall(t *testing.T) {
	s := &Search{cfg: SearchConfig{MutationRate: 1}, rng: rand.New(rand.NewSource(6))}
	problem := &Problem{
		Subjects:    []models.Subject{{ID: "sub-1", Code: "CS101"}},
		Faculties:   []models.Faculty{{ID: "fac-1"}, {ID: "fac-2"}},
		Preferences: map[string][]string{},
	}
	problem.index()
	chromosome := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", SubjectID: "sub-1", FacultyID: "fac-1", TimeSlotID: "slot-1"},
		{ClassID: "class-1", SubjectID: "sub-1", FacultyID: "fac-1", TimeSlotID: "slot-2"},
		{ClassID: "class-2", SubjectID: "sub-1", FacultyID: "fac-1", TimeSlotID: "slot-3"},
	}}
	before := make([]Gene, len(chromosome.Genes))
	copy(before, chromosome.Genes)

	s.mutate(problem, chromosome)

	changed := 0
	for i, g := range chromosome.Genes {
		if g != before[i] {
			changed++
		}
	}
	assert.LessOrEqual(t, changed, 2) // a swap-style operator touches two genes, not one
}

func TestMutateNoOpWhenRateNotMet(t *testing.T) {
	s := &Search{cfg: SearchConfig{MutationRate: 0}, rng: rand.New(rand.NewSource(6))}
	chromosome := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", TimeSlotID: "slot-1"},
		{ClassID: "class-1", TimeSlotID: "slot-2"},
	}}
	before := make([]Gene, len(chromosome.Genes))
	copy(before, chromosome.Genes)

	s.mutate(nil, chromosome)
	assert.Equal(t, before, chromosome.Genes)
}

func TestMutateSwapSlotLeavesLabGenesUntouched(t *testing.T) {
	s := &Search{cfg: SearchConfig{MutationRate: 1}, rng: rand.New(rand.NewSource(1))}
	chromosome := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", TimeSlotID: "slot-1", IsLab: true},
	}}
	s.mutateSwapSlot(chromosome, 0)
	assert.Equal(t, "slot-1", chromosome.Genes[0].TimeSlotID)
}

func TestMutateSwapSlotSwapsWithinSameClass(t *testing.T) {
	s := &Search{cfg: SearchConfig{}, rng: rand.New(rand.NewSource(2))}
	chromosome := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", TimeSlotID: "slot-1"},
		{ClassID: "class-1", TimeSlotID: "slot-2"},
		{ClassID: "class-2", TimeSlotID: "slot-3"},
	}}
	s.mutateSwapSlot(chromosome, 0)
	slots := map[string]bool{chromosome.Genes[0].TimeSlotID: true, chromosome.Genes[1].TimeSlotID: true}
	assert.True(t, slots["slot-1"] && slots["slot-2"])
	assert.Equal(t, "slot-3", chromosome.Genes[2].TimeSlotID)
}

func TestMutateChangeFacultyPicksEligibleFaculty(t *testing.T) {
	s := &Search{cfg: SearchConfig{}, rng: rand.New(rand.NewSource(4))}
	problem := &Problem{
		Subjects:    []models.Subject{{ID: "sub-1", Code: "CS101"}},
		Faculties:   []models.Faculty{{ID: "fac-1"}, {ID: "fac-2"}},
		Preferences: map[string][]string{},
	}
	problem.index()
	chromosome := &Chromosome{Genes: []Gene{{SubjectID: "sub-1", FacultyID: "fac-1"}}}

	s.mutateChangeFaculty(problem, chromosome, 0)
	assert.Contains(t, []string{"fac-1", "fac-2"}, chromosome.Genes[0].FacultyID)
}

func TestMutateSwapFacultyAcrossSlotRequiresDifferentClassSameSlot(t *testing.T) {
	s := &Search{cfg: SearchConfig{}, rng: rand.New(rand.NewSource(5))}
	chromosome := &Chromosome{Genes: []Gene{
		{ClassID: "class-1", TimeSlotID: "slot-1", FacultyID: "fac-1"},
		{ClassID: "class-2", TimeSlotID: "slot-1", FacultyID: "fac-2"},
	}}
	s.mutateSwapFacultyAcrossSlot(chromosome, 0)
	assert.Equal(t, "fac-2", chromosome.Genes[0].FacultyID)
	assert.Equal(t, "fac-1", chromosome.Genes[1].FacultyID)
}

func TestSearchRunStopsEarlyOnFeasibleSolution(t *testing.T) {
	problem := baseProblem()
	cfg := SearchConfig{
		PopulationSize: 4,
		Generations:    50,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		EliteCount:     1,
		TournamentSize: 2,
		EvalWorkers:    2,
	}
	s := NewSearch(cfg, 42, nil)

	// Degenerate problem with a single class and a single feasible gene
	// placement reaches fitness >= 0 immediately.
	problem.Classes = []models.ClassSection{{ID: "class-1", SemesterID: "sem-1"}}
	problem.ClassSubjects = map[string][]string{"class-1": {"sub-theory"}}
	problem.Subjects = []models.Subject{{ID: "sub-theory", Code: "CS101", Kind: models.SubjectTheory, HoursPerWeek: 1, SemesterID: "sem-1"}}
	problem.Faculties = []models.Faculty{{ID: "fac-1"}}
	problem.WorkloadCap = map[string]int{"fac-1": 20}
	problem.index()

	result := s.Run(context.Background(), problem, nil)
	require.NotNil(t, result.Best)
	assert.True(t, result.Converged)
	assert.GreaterOrEqual(t, result.Best.Fitness, float64(0))
}

func TestSearchRunHonorsContextCancellation(t *testing.T) {
	problem := baseProblem()
	problem.Classes = []models.ClassSection{{ID: "class-1", SemesterID: "sem-1"}}
	problem.ClassSubjects = map[string][]string{"class-1": {"sub-theory"}}
	problem.Subjects = []models.Subject{{ID: "sub-theory", Code: "CS101", Kind: models.SubjectTheory, HoursPerWeek: 1, SemesterID: "sem-1"}}
	problem.Faculties = []models.Faculty{{ID: "fac-1"}, {ID: "fac-2"}}
	problem.index()

	cfg := SearchConfig{PopulationSize: 2, Generations: 1000, TournamentSize: 2}
	s := NewSearch(cfg, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := s.Run(ctx, problem, nil)
	assert.LessOrEqual(t, result.Generations, 1)
}
