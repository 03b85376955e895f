package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empID   = "5c9e7a2b-1d3f-4e6a-8b0c-9d2e4f6a8b1c"
	actorID = "a1b2c3d4-0000-4000-8000-000000000001"
)

type memLedgerRepo struct {
	mu      sync.Mutex
	seq     int
	entries map[string]ledger.Entry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{entries: map[string]ledger.Entry{}}
}

func (m *memLedgerRepo) Create(_ context.Context, e ledger.Entry) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
	m.entries[e.ID] = e
	return e, nil
}

func (m *memLedgerRepo) GetByID(_ context.Context, id string) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ledger.Entry{}, ledger.ErrEntryNotFound
	}
	return e, nil
}

func (m *memLedgerRepo) UpdateUnapplied(_ context.Context, id string, u ledger.EntryUpdate) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ledger.Entry{}, ledger.ErrEntryNotFound
	}
	if e.Applied {
		return ledger.Entry{}, ledger.ErrEntryApplied
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Hours != nil {
		e.Hours = u.Hours
	}
	if u.Reason != nil {
		e.Reason = *u.Reason
	}
	e.UpdatedBy = &u.UpdatedBy
	m.entries[id] = e
	return e, nil
}

func (m *memLedgerRepo) DeleteUnapplied(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ledger.ErrEntryNotFound
	}
	if e.Applied {
		return ledger.ErrEntryApplied
	}
	delete(m.entries, id)
	return nil
}

func (m *memLedgerRepo) List(_ context.Context, f ledger.ListFilter) ([]ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.EmployeeID == f.EmployeeID && e.PeriodMonth == f.PeriodMonth && e.PeriodYear == f.PeriodYear &&
			(f.Type == nil || *f.Type == e.Type) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedgerRepo) ListUnappliedForPeriod(_ context.Context, ids []string, month, year int) ([]ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := map[string]bool{}
	for _, id := range ids {
		in[id] = true
	}
	var out []ledger.Entry
	for _, e := range m.entries {
		if in[e.EmployeeID] && !e.Applied && e.PeriodMonth == month && e.PeriodYear == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedgerRepo) MarkApplied(_ context.Context, ids []string, recordID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		e, ok := m.entries[id]
		if !ok {
			continue
		}
		if e.Applied {
			if e.PayrollRecordID != nil && *e.PayrollRecordID == recordID {
				n++
			}
			continue
		}
		e.Applied = true
		e.PayrollRecordID = &recordID
		m.entries[id] = e
		n++
	}
	return n, nil
}

type stubEmployees struct{}

func (stubEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if id != empID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: empID, BaseSalary: 3000, EmploymentStatus: employee.EmploymentStatusActive}, nil
}

func (stubEmployees) ListActive(context.Context, employee.Scope) ([]employee.Employee, error) {
	return nil, nil
}

type countingNotifier struct{ events []notification.Event }

func (c *countingNotifier) Notify(_ context.Context, e notification.Event) { c.events = append(c.events, e) }
func (c *countingNotifier) Stop()                                          {}

func newService() (ledger.LedgerService, *memLedgerRepo, *countingNotifier) {
	repo := newMemLedgerRepo()
	n := &countingNotifier{}
	return NewLedgerService(repo, stubEmployees{}, n, nil), repo, n
}

func addReq(t ledger.EntryType, amount int64) ledger.AddEntryRequest {
	return ledger.AddEntryRequest{
		EmployeeID:  empID,
		Type:        string(t),
		Amount:      amount,
		Reason:      "test",
		PeriodMonth: 3,
		PeriodYear:  2025,
		CreatedBy:   actorID,
	}
}

func TestAddEntry_Bonus(t *testing.T) {
	svc, _, n := newService()

	got, err := svc.AddEntry(context.Background(), addReq(ledger.EntryTypeBonus, 200))
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Applied)
	assert.Equal(t, int64(200), got.Amount)

	require.Len(t, n.events, 1)
	assert.Equal(t, notification.TypeLedgerBonusAdded, n.events[0].Type)
}

func TestAddEntry_Validation(t *testing.T) {
	svc, _, _ := newService()
	hours := decimal.NewFromInt(2)

	tests := []struct {
		name  string
		req   ledger.AddEntryRequest
		field string
	}{
		{"zero bonus", addReq(ledger.EntryTypeBonus, 0), "amount"},
		{"negative deduction", addReq(ledger.EntryTypeDeduction, -50), "amount"},
		{"zero correction", addReq(ledger.EntryTypeCorrection, 0), "amount"},
		{"overtime without hours", addReq(ledger.EntryTypeOvertime, 100), "hours"},
		{"unknown type", addReq("gift", 10), "type"},
		{"bonus with hours", func() ledger.AddEntryRequest {
			r := addReq(ledger.EntryTypeBonus, 10)
			r.Hours = &hours
			return r
		}(), "hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddEntry(context.Background(), tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestAddEntry_NegativeCorrectionAllowed(t *testing.T) {
	svc, _, _ := newService()

	got, err := svc.AddEntry(context.Background(), addReq(ledger.EntryTypeCorrection, -75))
	require.NoError(t, err)
	assert.Equal(t, int64(-75), got.SignedAmount())
}

func TestAddEntry_UnknownEmployee(t *testing.T) {
	svc, _, _ := newService()
	req := addReq(ledger.EntryTypeBonus, 10)
	req.EmployeeID = "99999999-0000-4000-8000-000000000000"

	_, err := svc.AddEntry(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEntryIsImmutableAfterApply(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, addReq(ledger.EntryTypeDeduction, 50))
	require.NoError(t, err)

	require.NoError(t, svc.MarkApplied(ctx, "rec-1", []string{entry.ID}))
	assert.True(t, repo.entries[entry.ID].Applied)

	amount := int64(10)
	_, err = svc.UpdateEntry(ctx, ledger.UpdateEntryRequest{ID: entry.ID, Amount: &amount, UpdatedBy: actorID})
	var immutable *apperror.ImmutableEntryError
	require.True(t, errors.As(err, &immutable))
	assert.Equal(t, "rec-1", immutable.PayrollRecordID)

	err = svc.DeleteEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, apperror.ErrImmutableEntry)

	require.NoError(t, svc.MarkApplied(ctx, "rec-1", []string{entry.ID}), "re-marking for the same record is a no-op")

	err = svc.MarkApplied(ctx, "rec-2", []string{entry.ID})
	assert.ErrorIs(t, err, ledger.ErrEntryApplied)
	assert.Equal(t, "rec-1", *repo.entries[entry.ID].PayrollRecordID)
}

func TestUpdateEntry_ValidatesMergedAmount(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, addReq(ledger.EntryTypeBonus, 100))
	require.NoError(t, err)

	bad := int64(-1)
	_, err = svc.UpdateEntry(ctx, ledger.UpdateEntryRequest{ID: entry.ID, Amount: &bad, UpdatedBy: actorID})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	good := int64(150)
	reason := "adjusted"
	got, err := svc.UpdateEntry(ctx, ledger.UpdateEntryRequest{ID: entry.ID, Amount: &good, Reason: &reason, UpdatedBy: actorID})
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Amount)
	assert.Equal(t, "adjusted", got.Reason)
}

func TestDeleteEntry(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	entry, err := svc.AddEntry(ctx, addReq(ledger.EntryTypeBonus, 100))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, entry.ID))
	_, err = svc.GetEntry(ctx, entry.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPendingForPeriod_SkipsApplied(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	a, err := svc.AddEntry(ctx, addReq(ledger.EntryTypeBonus, 100))
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, addReq(ledger.EntryTypeDeduction, 20))
	require.NoError(t, err)
	require.NoError(t, svc.MarkApplied(ctx, "rec-1", []string{a.ID}))

	pending, err := svc.PendingForPeriod(ctx, []string{empID}, 3, 2025)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ledger.EntryTypeDeduction, pending[0].Type)
}
