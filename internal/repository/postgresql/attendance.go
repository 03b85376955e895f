package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const outcomeColumns = `id, employee_id, work_date, check_in, check_out, status,
	is_late, late_minutes, is_early_departure, early_departure_minutes,
	overtime_minutes, break_minutes, working_minutes, location, notes,
	version, updated_by, created_at, updated_at, manual_early_departure_minutes`

func scanOutcome(row pgx.Row) (attendance.Outcome, error) {
	var o attendance.Outcome
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Date, &o.CheckIn, &o.CheckOut, &o.Status,
		&o.IsLate, &o.LateMinutes, &o.IsEarlyDeparture, &o.EarlyDepartureMinutes,
		&o.OvertimeMinutes, &o.BreakMinutes, &o.WorkingMinutes, &o.Location, &o.Notes,
		&o.Version, &o.UpdatedBy, &o.CreatedAt, &o.UpdatedAt, &o.ManualEarlyDepartureMinutes,
	)
	return o, err
}

// GetByEmployeeDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Outcome, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + outcomeColumns + ` FROM attendance_outcomes WHERE employee_id = $1 AND work_date = $2`

	o, err := scanOutcome(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Outcome{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Outcome{}, fmt.Errorf("failed to get attendance outcome: %w", err)
	}
	return o, nil
}

// Save implements attendance.AttendanceRepository.
func (a *attendanceRepository) Save(ctx context.Context, o attendance.Outcome, expectedVersion int) (attendance.Outcome, error) {
	q := GetQuerier(ctx, a.db)

	var (
		saved attendance.Outcome
		err   error
	)

	if expectedVersion == 0 {
		query := `
			INSERT INTO attendance_outcomes (
				employee_id, work_date, check_in, check_out, status,
				is_late, late_minutes, is_early_departure, early_departure_minutes,
				overtime_minutes, break_minutes, working_minutes, location, notes,
				version, updated_by, manual_early_departure_minutes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, $15, $16)
			ON CONFLICT (employee_id, work_date) DO NOTHING
			RETURNING ` + outcomeColumns

		saved, err = scanOutcome(q.QueryRow(ctx, query,
			o.EmployeeID, o.Date, o.CheckIn, o.CheckOut, string(o.Status),
			o.IsLate, o.LateMinutes, o.IsEarlyDeparture, o.EarlyDepartureMinutes,
			o.OvertimeMinutes, o.BreakMinutes, o.WorkingMinutes, o.Location, o.Notes,
			o.UpdatedBy, o.ManualEarlyDepartureMinutes,
		))
	} else {
		query := `
			UPDATE attendance_outcomes SET
				check_in = $3, check_out = $4, status = $5,
				is_late = $6, late_minutes = $7, is_early_departure = $8, early_departure_minutes = $9,
				overtime_minutes = $10, break_minutes = $11, working_minutes = $12,
				location = $13, notes = $14, updated_by = $15,
				manual_early_departure_minutes = $17,
				version = version + 1, updated_at = NOW()
			WHERE employee_id = $1 AND work_date = $2 AND version = $16
			RETURNING ` + outcomeColumns

		saved, err = scanOutcome(q.QueryRow(ctx, query,
			o.EmployeeID, o.Date, o.CheckIn, o.CheckOut, string(o.Status),
			o.IsLate, o.LateMinutes, o.IsEarlyDeparture, o.EarlyDepartureMinutes,
			o.OvertimeMinutes, o.BreakMinutes, o.WorkingMinutes, o.Location, o.Notes,
			o.UpdatedBy, expectedVersion, o.ManualEarlyDepartureMinutes,
		))
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Outcome{}, a.conflict(ctx, o.EmployeeID, o.Date, expectedVersion)
		}
		return attendance.Outcome{}, fmt.Errorf("failed to save attendance outcome: %w", err)
	}
	return saved, nil
}

// conflict builds the error for a guarded write that matched no row.
func (a *attendanceRepository) conflict(ctx context.Context, employeeID string, date time.Time, expected int) error {
	q := GetQuerier(ctx, a.db)

	var actual int
	err := q.QueryRow(ctx,
		`SELECT version FROM attendance_outcomes WHERE employee_id = $1 AND work_date = $2`,
		employeeID, date,
	).Scan(&actual)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read attendance version: %w", err)
	}

	return &apperror.ConflictError{
		Entity:          "attendance outcome",
		ID:              employeeID + "@" + date.Format("2006-01-02"),
		ExpectedVersion: expected,
		ActualVersion:   actual,
	}
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Outcome, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + outcomeColumns + `
		FROM attendance_outcomes
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []attendance.Outcome
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_outcomes WHERE employee_id = $1 AND work_date = $2`, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to delete attendance outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// SumByEmployees implements attendance.AttendanceRepository.
func (a *attendanceRepository) SumByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]attendance.Totals, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			employee_id,
			COUNT(*) FILTER (WHERE status IN ('present', 'late')) AS work_days,
			COUNT(*) FILTER (WHERE status = 'absent') AS absent_days,
			COUNT(*) FILTER (WHERE is_late) AS late_days,
			COALESCE(SUM(late_minutes), 0) AS total_late_minutes,
			COALESCE(SUM(early_departure_minutes), 0) AS total_early_departure_minutes,
			COALESCE(SUM(overtime_minutes), 0) AS total_overtime_minutes,
			COALESCE(SUM(working_minutes), 0) AS total_working_minutes
		FROM attendance_outcomes
		WHERE employee_id = ANY($1) AND work_date BETWEEN $2 AND $3
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, employeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum attendance outcomes: %w", err)
	}
	defer rows.Close()

	var totals []attendance.Totals
	for rows.Next() {
		var t attendance.Totals
		if err := rows.Scan(
			&t.EmployeeID, &t.WorkDays, &t.AbsentDays, &t.LateDays,
			&t.TotalLateMinutes, &t.TotalEarlyDepartureMinutes,
			&t.TotalOvertimeMinutes, &t.TotalWorkingMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance totals: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
