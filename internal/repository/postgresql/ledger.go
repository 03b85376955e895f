package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepository{db: db}
}

const ledgerColumns = `id, employee_id, entry_type, amount, hours, reason, period_month, period_year,
	applied, payroll_record_id, applied_at, created_by, updated_by, created_at, updated_at`

func scanEntry(row pgx.Row) (ledger.Entry, error) {
	var (
		e     ledger.Entry
		hours decimal.NullDecimal
	)
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.Type, &e.Amount, &hours, &e.Reason, &e.PeriodMonth, &e.PeriodYear,
		&e.Applied, &e.PayrollRecordID, &e.AppliedAt, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return ledger.Entry{}, err
	}
	if hours.Valid {
		h := hours.Decimal
		e.Hours = &h
	}
	return e, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// Create implements ledger.LedgerRepository.
func (r *ledgerRepository) Create(ctx context.Context, e ledger.Entry) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ledger_entries (
			employee_id, entry_type, amount, hours, reason, period_month, period_year, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + ledgerColumns

	created, err := scanEntry(q.QueryRow(ctx, query,
		e.EmployeeID, string(e.Type), e.Amount, nullableDecimal(e.Hours), e.Reason,
		e.PeriodMonth, e.PeriodYear, e.CreatedBy,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return ledger.Entry{}, fmt.Errorf("employee %s does not exist: %w", e.EmployeeID, err)
		}
		return ledger.Entry{}, fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return created, nil
}

// GetByID implements ledger.LedgerRepository.
func (r *ledgerRepository) GetByID(ctx context.Context, id string) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEntry(q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, ledger.ErrEntryNotFound
		}
		return ledger.Entry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return e, nil
}

// UpdateUnapplied implements ledger.LedgerRepository.
func (r *ledgerRepository) UpdateUnapplied(ctx context.Context, id string, u ledger.EntryUpdate) (ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE ledger_entries SET
			amount = COALESCE($2, amount),
			hours = COALESCE($3, hours),
			reason = COALESCE($4, reason),
			updated_by = $5,
			updated_at = NOW()
		WHERE id = $1 AND applied = FALSE
		RETURNING ` + ledgerColumns

	updated, err := scanEntry(q.QueryRow(ctx, query, id, u.Amount, nullableDecimal(u.Hours), u.Reason, u.UpdatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Entry{}, r.guardError(ctx, id)
		}
		return ledger.Entry{}, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	return updated, nil
}

// DeleteUnapplied implements ledger.LedgerRepository.
func (r *ledgerRepository) DeleteUnapplied(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1 AND applied = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardError(ctx, id)
	}
	return nil
}

// guardError tells a missing row apart from an applied one after a guarded
// write matched nothing.
func (r *ledgerRepository) guardError(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var applied bool
	err := q.QueryRow(ctx, `SELECT applied FROM ledger_entries WHERE id = $1`, id).Scan(&applied)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ledger.ErrEntryNotFound
	case err != nil:
		return fmt.Errorf("failed to read ledger entry state: %w", err)
	case applied:
		return ledger.ErrEntryApplied
	default:
		return fmt.Errorf("ledger entry %s changed concurrently", id)
	}
}

// List implements ledger.LedgerRepository.
func (r *ledgerRepository) List(ctx context.Context, f ledger.ListFilter) ([]ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3`
	args := []interface{}{f.EmployeeID, f.PeriodMonth, f.PeriodYear}

	if f.Type != nil {
		query += ` AND entry_type = $4`
		args = append(args, string(*f.Type))
	}
	query += ` ORDER BY created_at`

	return r.queryEntries(ctx, q, query, args...)
}

// ListUnappliedForPeriod implements ledger.LedgerRepository.
func (r *ledgerRepository) ListUnappliedForPeriod(ctx context.Context, employeeIDs []string, month, year int) ([]ledger.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE employee_id = ANY($1) AND period_month = $2 AND period_year = $3 AND applied = FALSE
		ORDER BY employee_id, created_at
		FOR UPDATE`

	return r.queryEntries(ctx, q, query, employeeIDs, month, year)
}

// MarkApplied implements ledger.LedgerRepository.
func (r *ledgerRepository) MarkApplied(ctx context.Context, ids []string, payrollRecordID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE ledger_entries
		SET applied = TRUE, payroll_record_id = $2,
			applied_at = COALESCE(applied_at, NOW()), updated_at = NOW()
		WHERE id = ANY($1) AND (applied = FALSE OR payroll_record_id = $2)
	`

	tag, err := q.Exec(ctx, query, ids, payrollRecordID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark ledger entries applied: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ledgerRepository) queryEntries(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]ledger.Entry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
