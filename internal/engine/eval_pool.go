package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// evalPool fans a population out across a fixed number of worker goroutines
// and fans the scored results back in by population index, never by append,
// so that tournament selection sees a stable ordering regardless of which
// worker finishes first. Structurally modeled on pkg/jobs.Queue (worker
// count, buffered channel, WaitGroup, zap logging), but purpose-built: the
// evaluator is pure and total, so there is no retry path and the pool must
// complete an entire population synchronously before a generation can
// advance, which the fire-and-forget Queue does not support.
type evalPool struct {
	workers int
	logger  *zap.Logger
}

func newEvalPool(workers int, logger *zap.Logger) *evalPool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &evalPool{workers: workers, logger: logger}
}

type evalTask struct {
	index      int
	chromosome *Chromosome
}

// evaluateAll scores every chromosome in population against problem and
// returns once all of them have been written back in place. If ctx is
// cancelled, the chromosomes not yet taken by a worker are left unscored.
func (p *evalPool) evaluateAll(ctx context.Context, problem *Problem, population []*Chromosome) {
	tasks := make(chan evalTask, len(population))
	for i, c := range population {
		tasks <- evalTask{index: i, chromosome: c}
	}
	close(tasks)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				select {
				case <-ctx.Done():
					return
				default:
				}
				Evaluate(problem, task.chromosome)
			}
		}()
	}
	wg.Wait()
}
