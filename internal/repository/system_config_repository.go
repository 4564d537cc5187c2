package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// SystemConfigRepository reads the engine's singleton configuration row.
type SystemConfigRepository struct {
	db *sqlx.DB
}

// NewSystemConfigRepository constructs the repository.
func NewSystemConfigRepository(db *sqlx.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// FindActive returns the current system configuration.
func (r *SystemConfigRepository) FindActive(ctx context.Context) (*models.SystemConfig, error) {
	const query = `SELECT id, active_semester_type, current_academic_year, periods_per_day, days_per_week FROM system_config LIMIT 1`
	var config models.SystemConfig
	if err := r.db.GetContext(ctx, &config, query); err != nil {
		return nil, fmt.Errorf("load system config: %w", err)
	}
	return &config, nil
}
