package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeScheduleAssignmentRepository struct {
	db *database.DB
}

func NewEmployeeScheduleAssignmentRepository(db *database.DB) schedule.ScheduleAssignmentRepository {
	return &employeeScheduleAssignmentRepository{db: db}
}

// GetCovering implements schedule.ScheduleAssignmentRepository. When ranges
// overlap the assignment that started most recently wins.
func (e *employeeScheduleAssignmentRepository) GetCovering(ctx context.Context, employeeID string, date time.Time) (schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_id, start_time, end_time, crosses_midnight,
			effective_from, effective_to, created_at, updated_at
		FROM employee_schedule_assignments
		WHERE employee_id = $1
			AND effective_from <= $2
			AND (effective_to IS NULL OR effective_to >= $2)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var a schedule.ScheduleAssignment
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&a.ID, &a.EmployeeID, &a.StartTime, &a.EndTime, &a.CrossesMidnight,
		&a.EffectiveFrom, &a.EffectiveTo, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ScheduleAssignment{}, schedule.ErrScheduleAssignmentNotFound
		}
		return schedule.ScheduleAssignment{}, fmt.Errorf("failed to get schedule assignment: %w", err)
	}

	return a, nil
}
