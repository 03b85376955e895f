package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// IsOnApprovedLeave implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1 AND status = $2
				AND start_date <= $3 AND end_date >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, string(leave.LeaveRequestStatusApproved), date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// ApprovedLeaveDates implements leave.LeaveRequestRepository. Each covered
// calendar day in [from, to] is returned once, in order.
func (r *leaveRequestRepositoryImpl) ApprovedLeaveDates(ctx context.Context, employeeID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT d::date
		FROM leave_requests lr,
			generate_series(GREATEST(lr.start_date, $3::date), LEAST(lr.end_date, $4::date), interval '1 day') AS d
		WHERE lr.employee_id = $1 AND lr.status = $2
			AND lr.start_date <= $4 AND lr.end_date >= $3
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, employeeID, string(leave.LeaveRequestStatusApproved), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan leave date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
