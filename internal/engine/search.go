package engine

import (
	"context"
	"math/rand"

	"go.uber.org/zap"
)

// SearchConfig controls the evolutionary search's hyperparameters. Defaults
// are supplied by the scheduler configuration layer.
type SearchConfig struct {
	PopulationSize  int
	Generations     int
	CrossoverRate   float64
	MutationRate    float64
	EliteCount      int
	TournamentSize  int
	EvalWorkers     int
	ProgressLogEach int
}

// ProgressFunc is invoked after every generation with the current best
// fitness seen so far. Optional; the search layer never blocks on it.
type ProgressFunc func(generation int, bestFitness float64)

// Search runs the genetic algorithm over a Problem.
type Search struct {
	cfg    SearchConfig
	rng    *rand.Rand
	logger *zap.Logger
	pool   *evalPool
}

// NewSearch builds a Search with a seeded RNG so population order and
// selection outcomes are reproducible given the same seed.
func NewSearch(cfg SearchConfig, seed int64, logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = 3
	}
	if cfg.EliteCount < 0 {
		cfg.EliteCount = 0
	}
	return &Search{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
		pool:   newEvalPool(cfg.EvalWorkers, logger),
	}
}

// Result is the outcome of a completed (or early-terminated) search.
type Result struct {
	Best        *Chromosome
	Generations int
	Converged   bool
}

// Run executes the generational loop: evaluate, elitism, selection,
// crossover, mutation, replace. Fitness is monotone non-decreasing across
// the returned best chromosome even though any single generation's
// population fitness can regress.
func (s *Search) Run(ctx context.Context, problem *Problem, progress ProgressFunc) Result {
	population := s.initialPopulation(problem)
	s.pool.evaluateAll(ctx, problem, population)

	best := bestOf(population).Clone()

	for generation := 1; generation <= s.cfg.Generations; generation++ {
		select {
		case <-ctx.Done():
			return Result{Best: best, Generations: generation - 1}
		default:
		}

		next := make([]*Chromosome, 0, len(population))
		elites := eliteOf(population, s.cfg.EliteCount)
		for _, e := range elites {
			next = append(next, e.Clone())
		}

		for len(next) < len(population) {
			parentA := s.tournamentSelect(population)
			parentB := s.tournamentSelect(population)

			var childA, childB *Chromosome
			if s.rng.Float64() < s.cfg.CrossoverRate {
				childA, childB = s.crossover(problem, parentA, parentB)
			} else {
				childA, childB = parentA.Clone(), parentB.Clone()
			}

			s.mutate(problem, childA)
			s.mutate(problem, childB)

			next = append(next, childA)
			if len(next) < len(population) {
				next = append(next, childB)
			}
		}

		population = next
		s.pool.evaluateAll(ctx, problem, population)

		generationBest := bestOf(population)
		if generationBest.Fitness > best.Fitness {
			best = generationBest.Clone()
		}

		if progress != nil {
			progress(generation, best.Fitness)
		}
		if s.cfg.ProgressLogEach > 0 && generation%s.cfg.ProgressLogEach == 0 {
			s.logger.Sugar().Infow("generation progress", "generation", generation, "best_fitness", best.Fitness)
		}

		if best.Fitness >= 0 {
			return Result{Best: best, Generations: generation, Converged: true}
		}
	}

	return Result{Best: best, Generations: s.cfg.Generations}
}

func bestOf(population []*Chromosome) *Chromosome {
	best := population[0]
	for _, c := range population[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// eliteOf returns the top-n chromosomes by fitness without mutating population.
func eliteOf(population []*Chromosome, n int) []*Chromosome {
	if n <= 0 {
		return nil
	}
	if n > len(population) {
		n = len(population)
	}
	sorted := make([]*Chromosome, len(population))
	copy(sorted, population)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Fitness < sorted[j].Fitness; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted[:n]
}

func (s *Search) tournamentSelect(population []*Chromosome) *Chromosome {
	best := population[s.rng.Intn(len(population))]
	for i := 1; i < s.cfg.TournamentSize; i++ {
		candidate := population[s.rng.Intn(len(population))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

// crossover partitions genes by class and swaps an exact, uniformly chosen
// half of the class keys between parents, keeping every gene for a given
// class contiguous so a child never ends up with a half-scheduled class.
func (s *Search) crossover(problem *Problem, parentA, parentB *Chromosome) (*Chromosome, *Chromosome) {
	byClassA := groupByClass(parentA.Genes)
	byClassB := groupByClass(parentB.Genes)

	classKeys := make([]string, 0, len(problem.Classes))
	for _, c := range problem.Classes {
		classKeys = append(classKeys, c.ID)
	}
	s.rng.Shuffle(len(classKeys), func(i, j int) { classKeys[i], classKeys[j] = classKeys[j], classKeys[i] })

	swap := make(map[string]struct{}, len(classKeys)/2)
	for _, classID := range classKeys[:len(classKeys)/2] {
		swap[classID] = struct{}{}
	}

	childAGenes := make([]Gene, 0, len(parentA.Genes))
	childBGenes := make([]Gene, 0, len(parentB.Genes))

	for _, classID := range classKeys {
		if _, swapped := swap[classID]; swapped {
			childAGenes = append(childAGenes, byClassB[classID]...)
			childBGenes = append(childBGenes, byClassA[classID]...)
		} else {
			childAGenes = append(childAGenes, byClassA[classID]...)
			childBGenes = append(childBGenes, byClassB[classID]...)
		}
	}

	return &Chromosome{Genes: childAGenes}, &Chromosome{Genes: childBGenes}
}

func groupByClass(genes []Gene) map[string][]Gene {
	grouped := make(map[string][]Gene)
	for _, g := range genes {
		grouped[g.ClassID] = append(grouped[g.ClassID], g)
	}
	return grouped
}

// mutate rolls once per chromosome at rate cfg.MutationRate; on success it
// picks a single random gene and applies one of three operators to it:
// swap_slot (swap time slots between two theory genes of the same class),
// change_faculty (reassign to a random eligible faculty), or
// swap_faculty_across_slot (swap faculty between two different-class genes
// sharing a time slot).
func (s *Search) mutate(problem *Problem, chromosome *Chromosome) {
	if len(chromosome.Genes) == 0 {
		return
	}
	if s.rng.Float64() >= s.cfg.MutationRate {
		return
	}
	i := s.rng.Intn(len(chromosome.Genes))
	switch s.rng.Intn(3) {
	case 0:
		s.mutateSwapSlot(chromosome, i)
	case 1:
		s.mutateChangeFaculty(problem, chromosome, i)
	default:
		s.mutateSwapFacultyAcrossSlot(chromosome, i)
	}
}

func (s *Search) mutateSwapSlot(chromosome *Chromosome, i int) {
	gene := chromosome.Genes[i]
	if gene.IsLab {
		return
	}
	var candidates []int
	for j, other := range chromosome.Genes {
		if j != i && other.ClassID == gene.ClassID && !other.IsLab {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return
	}
	j := candidates[s.rng.Intn(len(candidates))]
	chromosome.Genes[i].TimeSlotID, chromosome.Genes[j].TimeSlotID = chromosome.Genes[j].TimeSlotID, chromosome.Genes[i].TimeSlotID
}

func (s *Search) mutateChangeFaculty(problem *Problem, chromosome *Chromosome, i int) {
	gene := chromosome.Genes[i]
	subject, ok := problem.Subject(gene.SubjectID)
	if !ok {
		return
	}
	eligible := eligibleFacultyForSubject(problem, subject)
	if len(eligible) == 0 {
		return
	}
	chromosome.Genes[i].FacultyID = eligible[s.rng.Intn(len(eligible))]
}

func (s *Search) mutateSwapFacultyAcrossSlot(chromosome *Chromosome, i int) {
	gene := chromosome.Genes[i]
	var candidates []int
	for j, other := range chromosome.Genes {
		if j != i && other.ClassID != gene.ClassID && other.TimeSlotID == gene.TimeSlotID {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return
	}
	j := candidates[s.rng.Intn(len(candidates))]
	chromosome.Genes[i].FacultyID, chromosome.Genes[j].FacultyID = chromosome.Genes[j].FacultyID, chromosome.Genes[i].FacultyID
}
