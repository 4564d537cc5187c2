package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// DepartmentRepository resolves departments by their stable key.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// FindByKey loads an active department by its code.
func (r *DepartmentRepository) FindByKey(ctx context.Context, key string) (*models.Department, error) {
	const query = `SELECT id, code, name, is_active FROM departments WHERE code = $1 AND is_active = TRUE`
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, key); err != nil {
		return nil, fmt.Errorf("find department %s: %w", key, err)
	}
	return &department, nil
}
