package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
)

type LedgerServiceImpl struct {
	ledgerRepo   ledger.LedgerRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	logger       *slog.Logger
}

func NewLedgerService(
	ledgerRepo ledger.LedgerRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
) ledger.LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerServiceImpl{
		ledgerRepo:   ledgerRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// AddEntry implements ledger.LedgerService.
func (s *LedgerServiceImpl) AddEntry(ctx context.Context, req ledger.AddEntryRequest) (ledger.Entry, error) {
	if err := req.Validate(); err != nil {
		return ledger.Entry{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return ledger.Entry{}, apperror.NotFound("employee", req.EmployeeID)
		}
		return ledger.Entry{}, fmt.Errorf("failed to get employee: %w", err)
	}

	entry := ledger.Entry{
		EmployeeID:  req.EmployeeID,
		Type:        ledger.EntryType(req.Type),
		Amount:      req.Amount,
		Hours:       req.Hours,
		Reason:      req.Reason,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		CreatedBy:   req.CreatedBy,
	}

	created, err := s.ledgerRepo.Create(ctx, entry)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	if created.Type == ledger.EntryTypeBonus {
		actor := req.CreatedBy
		s.notifier.Notify(ctx, notification.Event{
			Type:        notification.TypeLedgerBonusAdded,
			RecipientID: created.EmployeeID,
			ActorID:     &actor,
			Title:       "Bonus added",
			Message:     fmt.Sprintf("A bonus was added to your %02d/%d payroll", created.PeriodMonth, created.PeriodYear),
			Data: map[string]interface{}{
				"entry_id":     created.ID,
				"amount":       created.Amount,
				"period_month": created.PeriodMonth,
				"period_year":  created.PeriodYear,
			},
		})
	}

	return created, nil
}

// UpdateEntry implements ledger.LedgerService.
func (s *LedgerServiceImpl) UpdateEntry(ctx context.Context, req ledger.UpdateEntryRequest) (ledger.Entry, error) {
	if err := req.Validate(); err != nil {
		return ledger.Entry{}, err
	}

	existing, err := s.GetEntry(ctx, req.ID)
	if err != nil {
		return ledger.Entry{}, err
	}
	if existing.Applied {
		return ledger.Entry{}, immutable(existing)
	}
	if err := req.ValidateAgainst(existing); err != nil {
		return ledger.Entry{}, err
	}

	updated, err := s.ledgerRepo.UpdateUnapplied(ctx, req.ID, ledger.EntryUpdate{
		Amount:    req.Amount,
		Hours:     req.Hours,
		Reason:    req.Reason,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		return ledger.Entry{}, s.mapWriteError(ctx, req.ID, err)
	}
	return updated, nil
}

// DeleteEntry implements ledger.LedgerService.
func (s *LedgerServiceImpl) DeleteEntry(ctx context.Context, id string) error {
	if err := s.ledgerRepo.DeleteUnapplied(ctx, id); err != nil {
		return s.mapWriteError(ctx, id, err)
	}
	s.logger.Info("ledger entry deleted", slog.String("entry_id", id))
	return nil
}

// GetEntry implements ledger.LedgerService.
func (s *LedgerServiceImpl) GetEntry(ctx context.Context, id string) (ledger.Entry, error) {
	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			return ledger.Entry{}, apperror.NotFound("ledger entry", id)
		}
		return ledger.Entry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return entry, nil
}

// ListEntries implements ledger.LedgerService.
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, req ledger.ListEntriesRequest) ([]ledger.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.List(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// PendingForPeriod implements ledger.LedgerService.
func (s *LedgerServiceImpl) PendingForPeriod(ctx context.Context, employeeIDs []string, month, year int) ([]ledger.Entry, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	entries, err := s.ledgerRepo.ListUnappliedForPeriod(ctx, employeeIDs, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ledger entries: %w", err)
	}
	return entries, nil
}

// MarkApplied implements ledger.LedgerService.
func (s *LedgerServiceImpl) MarkApplied(ctx context.Context, payrollRecordID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.ledgerRepo.MarkApplied(ctx, ids, payrollRecordID)
	if err != nil {
		return fmt.Errorf("failed to mark ledger entries applied: %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("marked %d of %d entries for record %s: %w", n, len(ids), payrollRecordID, ledger.ErrEntryApplied)
	}
	return nil
}

// mapWriteError turns repository guard failures into caller-facing errors.
// The applied check is repeated here because the row may have been applied
// between the read and the guarded write.
func (s *LedgerServiceImpl) mapWriteError(ctx context.Context, id string, err error) error {
	switch {
	case errors.Is(err, ledger.ErrEntryNotFound):
		return apperror.NotFound("ledger entry", id)
	case errors.Is(err, ledger.ErrEntryApplied):
		entry, getErr := s.ledgerRepo.GetByID(ctx, id)
		if getErr != nil {
			return &apperror.ImmutableEntryError{EntryID: id}
		}
		return immutable(entry)
	default:
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
}

func immutable(e ledger.Entry) error {
	err := &apperror.ImmutableEntryError{EntryID: e.ID}
	if e.PayrollRecordID != nil {
		err.PayrollRecordID = *e.PayrollRecordID
	}
	return err
}
