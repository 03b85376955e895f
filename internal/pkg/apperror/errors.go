// Package apperror holds the error kinds shared by the attendance, ledger
// and payroll services. Each structured error unwraps to a sentinel so
// callers can branch with errors.Is and still read the context with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrImmutableEntry    = errors.New("ledger entry already applied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyGenerated  = errors.New("payroll already generated for period")
	ErrConfig            = errors.New("invalid configuration")
	ErrVersionConflict   = errors.New("version conflict")
)

// NotFoundError names the entity kind and id that could not be found.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type ImmutableEntryError struct {
	EntryID         string
	PayrollRecordID string
}

func (e *ImmutableEntryError) Error() string {
	if e.PayrollRecordID != "" {
		return fmt.Sprintf("ledger entry %s was applied to payroll record %s and can no longer change", e.EntryID, e.PayrollRecordID)
	}
	return fmt.Sprintf("ledger entry %s was applied and can no longer change", e.EntryID)
}

func (e *ImmutableEntryError) Unwrap() error { return ErrImmutableEntry }

// InvalidTransitionError reports the state a record was in when an action was refused.
type InvalidTransitionError struct {
	RecordID string
	From     string
	Action   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s payroll record %s in status %q", e.Action, e.RecordID, e.From)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

type AlreadyGeneratedError struct {
	Month           int
	Year            int
	ExistingRecords int
}

func (e *AlreadyGeneratedError) Error() string {
	if e.ExistingRecords > 0 {
		return fmt.Sprintf("payroll for %02d/%d already generated (%d existing records in scope)", e.Month, e.Year, e.ExistingRecords)
	}
	return fmt.Sprintf("payroll for %02d/%d already generated", e.Month, e.Year)
}

func (e *AlreadyGeneratedError) Unwrap() error { return ErrAlreadyGenerated }

// ConfigError is fatal: malformed schedule or payroll policy data.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// ConflictError is returned when an optimistic version check fails.
type ConflictError struct {
	Entity          string
	ID              string
	ExpectedVersion int
	ActualVersion   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently (expected version %d, found %d)",
		e.Entity, e.ID, e.ExpectedVersion, e.ActualVersion)
}

func (e *ConflictError) Unwrap() error { return ErrVersionConflict }
