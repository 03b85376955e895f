package ledger

import "errors"

var (
	ErrEntryNotFound     = errors.New("ledger entry not found")
	ErrEntryApplied      = errors.New("ledger entry already applied to payroll")
	ErrInvalidEntryType  = errors.New("invalid ledger entry type")
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
	ErrAmountZero        = errors.New("correction amount must not be zero")
	ErrHoursRequired     = errors.New("overtime entries require hours greater than 0")
	ErrHoursNotAllowed   = errors.New("hours are only allowed on overtime entries")
)

// CheckAmount enforces the per-type amount and hours rules.
func CheckAmount(t EntryType, amount int64, hasHours, hoursPositive bool) error {
	switch t {
	case EntryTypeBonus, EntryTypeDeduction:
		if hasHours {
			return ErrHoursNotAllowed
		}
		if amount <= 0 {
			return ErrAmountNotPositive
		}
	case EntryTypeOvertime:
		if amount <= 0 {
			return ErrAmountNotPositive
		}
		if !hasHours || !hoursPositive {
			return ErrHoursRequired
		}
	case EntryTypeCorrection:
		if hasHours {
			return ErrHoursNotAllowed
		}
		if amount == 0 {
			return ErrAmountZero
		}
	default:
		return ErrInvalidEntryType
	}
	return nil
}
