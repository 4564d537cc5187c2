package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// FitnessHistoryRepository records one row per completed generation run,
// for inspecting convergence behaviour across regenerations.
type FitnessHistoryRepository struct {
	db *sqlx.DB
}

// NewFitnessHistoryRepository constructs the repository.
func NewFitnessHistoryRepository(db *sqlx.DB) *FitnessHistoryRepository {
	return &FitnessHistoryRepository{db: db}
}

func (r *FitnessHistoryRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Record inserts a fitness-history row for a completed run.
func (r *FitnessHistoryRepository) Record(ctx context.Context, exec sqlx.ExtContext, departmentID, termInstance string, generations int, finalFitness float64, report types.JSONText) error {
	target := r.exec(exec)
	const query = `
INSERT INTO fitness_history (id, department_id, term_instance, generations, final_fitness, report, created_at)
VALUES (:id, :department_id, :term_instance, :generations, :final_fitness, :report, :created_at)`
	row := struct {
		ID           string         `db:"id"`
		DepartmentID string         `db:"department_id"`
		TermInstance string         `db:"term_instance"`
		Generations  int            `db:"generations"`
		FinalFitness float64        `db:"final_fitness"`
		Report       types.JSONText `db:"report"`
		CreatedAt    time.Time      `db:"created_at"`
	}{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		TermInstance: termInstance,
		Generations:  generations,
		FinalFitness: finalFitness,
		Report:       report,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := sqlx.NamedExecContext(ctx, target, query, row); err != nil {
		return fmt.Errorf("record fitness history: %w", err)
	}
	return nil
}
