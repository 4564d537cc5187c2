package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/ktuplanner/timetable-engine/pkg/errors"

	"github.com/ktuplanner/timetable-engine/internal/models"
)

// TimeSlotRepository manages the fixed weekly time-slot grid.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListTeaching returns the 35 weekly teaching periods, excluding the lunch slots.
func (r *TimeSlotRepository) ListTeaching(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `
SELECT id, day, period, start_time, end_time, kind, is_locked
FROM time_slots WHERE kind IN ('MORNING', 'AFTERNOON') ORDER BY day ASC, period ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list teaching slots: %w", err)
	}
	return slots, nil
}

// ListAll returns every slot in the grid, teaching and lunch alike.
func (r *TimeSlotRepository) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day, period, start_time, end_time, kind, is_locked FROM time_slots ORDER BY day ASC, period ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// Update overwrites a time slot's day, period, start/end times and kind.
// Locked slots reject every update, so the fixed 35-period grid the engine
// depends on can never drift out from under it.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	var isLocked bool
	if err := r.db.GetContext(ctx, &isLocked, `SELECT is_locked FROM time_slots WHERE id = $1`, slot.ID); err != nil {
		return fmt.Errorf("load time slot lock state: %w", err)
	}
	if isLocked {
		return appErrors.Clone(appErrors.ErrConflict, "time slot is locked and cannot be restructured")
	}

	const query = `UPDATE time_slots SET day = :day, period = :period, start_time = :start_time, end_time = :end_time, kind = :kind WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update time slot: %w", err)
	}
	return nil
}
