package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `pr.id, pr.employee_id, pr.period_month, pr.period_year,
	pr.base_salary, pr.overtime_minutes, pr.overtime_hours, pr.overtime_pay,
	pr.bonuses, pr.deductions, pr.corrections, pr.adjustments,
	pr.gross_salary, pr.tax_rate, pr.tax_deduction, pr.net_salary,
	pr.total_work_days, pr.total_absent_days, pr.total_late_minutes,
	pr.status, pr.generated_by, pr.approved_by, pr.approved_at, pr.paid_by, pr.paid_at,
	pr.payment_method, pr.payment_reference, pr.created_at, pr.updated_at,
	e.full_name, e.employee_code`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.OvertimeMinutes, &rec.OvertimeHours, &rec.OvertimePay,
		&rec.Bonuses, &rec.Deductions, &rec.Corrections, &rec.Adjustments,
		&rec.GrossSalary, &rec.TaxRate, &rec.TaxDeduction, &rec.NetSalary,
		&rec.TotalWorkDays, &rec.TotalAbsentDays, &rec.TotalLateMinutes,
		&rec.Status, &rec.GeneratedBy, &rec.ApprovedBy, &rec.ApprovedAt, &rec.PaidBy, &rec.PaidAt,
		&rec.PaymentMethod, &rec.PaymentReference, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
	)
	return rec, err
}

// periodLockKey maps a period to a stable advisory lock key.
func periodLockKey(month, year int) int64 {
	return int64(year)*100 + int64(month)
}

// LockPeriod implements payroll.PayrollRepository. The lock is transaction
// scoped, so this must run inside WithinTransaction.
func (r *payrollRepository) LockPeriod(ctx context.Context, month, year int) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, periodLockKey(month, year)); err != nil {
		return fmt.Errorf("failed to acquire payroll period lock: %w", err)
	}
	return nil
}

// CountByPeriod implements payroll.PayrollRepository.
func (r *payrollRepository) CountByPeriod(ctx context.Context, month, year int, employeeIDs []string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM payroll_records
		WHERE period_month = $1 AND period_year = $2 AND employee_id = ANY($3)
	`

	var count int
	if err := q.QueryRow(ctx, query, month, year, employeeIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payroll records: %w", err)
	}
	return count, nil
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year,
			base_salary, overtime_minutes, overtime_hours, overtime_pay,
			bonuses, deductions, corrections, adjustments,
			gross_salary, tax_rate, tax_deduction, net_salary,
			total_work_days, total_absent_days, total_late_minutes,
			status, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`

	created := rec
	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.PeriodMonth, rec.PeriodYear,
		rec.BaseSalary, rec.OvertimeMinutes, rec.OvertimeHours, rec.OvertimePay,
		rec.Bonuses, rec.Deductions, rec.Corrections, rec.Adjustments,
		rec.GrossSalary, rec.TaxRate, rec.TaxDeduction, rec.NetSalary,
		rec.TotalWorkDays, rec.TotalAbsentDays, rec.TotalLateMinutes,
		string(rec.Status), rec.GeneratedBy,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE 1 = 1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s
		ORDER BY pr.period_year DESC, pr.period_month DESC, e.employee_code
		LIMIT $%d OFFSET $%d`, payrollRecordColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

// Transition implements payroll.PayrollRepository.
func (r *payrollRepository) Transition(ctx context.Context, id string, from, to payroll.PayrollStatus, u payroll.TransitionUpdate) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	var (
		query string
		args  []interface{}
	)
	switch to {
	case payroll.PayrollStatusApproved:
		query = `
			UPDATE payroll_records
			SET status = $2, approved_by = $3, approved_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = $4
			RETURNING id
		`
		args = []interface{}{id, string(to), u.ActorID, string(from)}
	case payroll.PayrollStatusPaid:
		query = `
			UPDATE payroll_records
			SET status = $2, paid_by = $3, paid_at = NOW(),
				payment_method = $5, payment_reference = $6, updated_at = NOW()
			WHERE id = $1 AND status = $4
			RETURNING id
		`
		args = []interface{}{id, string(to), u.ActorID, string(from), u.PaymentMethod, u.PaymentReference}
	default:
		return payroll.PayrollRecord{}, fmt.Errorf("unsupported target status %q", to)
	}

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrStatusMismatch
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll status: %w", err)
	}

	return r.GetByID(ctx, updatedID)
}

// GetPeriodSummary implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodSummary(ctx context.Context, month, year int) (payroll.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_records,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count,
			COALESCE(SUM(base_salary), 0) AS total_base_salary,
			COALESCE(SUM(overtime_pay), 0) AS total_overtime_pay,
			COALESCE(SUM(bonuses), 0) AS total_bonuses,
			COALESCE(SUM(adjustments), 0) AS total_adjustments,
			COALESCE(SUM(gross_salary), 0) AS total_gross_salary,
			COALESCE(SUM(tax_deduction), 0) AS total_tax,
			COALESCE(SUM(net_salary), 0) AS total_net_salary
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2
	`

	summary := payroll.PeriodSummary{PeriodMonth: month, PeriodYear: year}
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalRecords, &summary.PendingCount, &summary.ApprovedCount, &summary.PaidCount,
		&summary.TotalBaseSalary, &summary.TotalOvertimePay, &summary.TotalBonuses,
		&summary.TotalAdjustments, &summary.TotalGrossSalary, &summary.TotalTax, &summary.TotalNetSalary,
	)
	if err != nil {
		return payroll.PeriodSummary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return summary, nil
}
