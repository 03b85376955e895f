package payroll

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empA    = "11111111-1111-4111-8111-111111111111"
	empB    = "22222222-2222-4222-8222-222222222222"
	actorID = "99999999-9999-4999-8999-999999999999"
)

// store is the shared in-memory state the fakes read and write. The fake
// transactor snapshots it and restores it when the callback fails.
type store struct {
	mu      sync.Mutex
	seq     int
	records map[string]payroll.PayrollRecord
	entries map[string]ledger.Entry
}

func newStore() *store {
	return &store{records: map[string]payroll.PayrollRecord{}, entries: map[string]ledger.Entry{}}
}

type snapshotTx struct{ s *store }

func (t snapshotTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.s.mu.Lock()
	records := maps.Clone(t.s.records)
	entries := maps.Clone(t.s.entries)
	seq := t.s.seq
	t.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.s.mu.Lock()
		t.s.records, t.s.entries, t.s.seq = records, entries, seq
		t.s.mu.Unlock()
		return err
	}
	return nil
}

type memPayrollRepo struct{ s *store }

func (m memPayrollRepo) LockPeriod(context.Context, int, int) error { return nil }

func (m memPayrollRepo) CountByPeriod(_ context.Context, month, year int, ids []string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	in := map[string]bool{}
	for _, id := range ids {
		in[id] = true
	}
	n := 0
	for _, r := range m.s.records {
		if r.PeriodMonth == month && r.PeriodYear == year && in[r.EmployeeID] {
			n++
		}
	}
	return n, nil
}

func (m memPayrollRepo) Create(_ context.Context, r payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.records {
		if existing.EmployeeID == r.EmployeeID && existing.PeriodMonth == r.PeriodMonth && existing.PeriodYear == r.PeriodYear {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	m.s.seq++
	r.ID = fmt.Sprintf("aaaaaaaa-0000-4000-8000-%012d", m.s.seq)
	r.CreatedAt = time.Now()
	m.s.records[r.ID] = r
	return r, nil
}

func (m memPayrollRepo) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (m memPayrollRepo) List(context.Context, payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]payroll.PayrollRecord, 0, len(m.s.records))
	for _, r := range m.s.records {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m memPayrollRepo) Transition(_ context.Context, id string, from, to payroll.PayrollStatus, u payroll.TransitionUpdate) (payroll.PayrollRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.records[id]
	if !ok || r.Status != from {
		return payroll.PayrollRecord{}, payroll.ErrStatusMismatch
	}
	now := time.Now()
	actor := u.ActorID
	r.Status = to
	switch to {
	case payroll.PayrollStatusApproved:
		r.ApprovedBy, r.ApprovedAt = &actor, &now
	case payroll.PayrollStatusPaid:
		r.PaidBy, r.PaidAt = &actor, &now
		r.PaymentMethod, r.PaymentReference = u.PaymentMethod, u.PaymentReference
	}
	m.s.records[id] = r
	return r, nil
}

func (m memPayrollRepo) GetPeriodSummary(_ context.Context, month, year int) (payroll.PeriodSummary, error) {
	return payroll.PeriodSummary{PeriodMonth: month, PeriodYear: year}, nil
}

type memLedger struct{ s *store }

func (l memLedger) add(e ledger.Entry) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.entries[e.ID] = e
}

func (l memLedger) AddEntry(context.Context, ledger.AddEntryRequest) (ledger.Entry, error) {
	return ledger.Entry{}, errors.New("not used")
}
func (l memLedger) UpdateEntry(context.Context, ledger.UpdateEntryRequest) (ledger.Entry, error) {
	return ledger.Entry{}, errors.New("not used")
}
func (l memLedger) DeleteEntry(context.Context, string) error { return errors.New("not used") }
func (l memLedger) GetEntry(_ context.Context, id string) (ledger.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.entries[id], nil
}
func (l memLedger) ListEntries(context.Context, ledger.ListEntriesRequest) ([]ledger.Entry, error) {
	return nil, nil
}

func (l memLedger) PendingForPeriod(_ context.Context, ids []string, month, year int) ([]ledger.Entry, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	in := map[string]bool{}
	for _, id := range ids {
		in[id] = true
	}
	var out []ledger.Entry
	for _, e := range l.s.entries {
		if in[e.EmployeeID] && !e.Applied && e.PeriodMonth == month && e.PeriodYear == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l memLedger) MarkApplied(_ context.Context, recordID string, ids []string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for _, id := range ids {
		e := l.s.entries[id]
		if e.Applied && (e.PayrollRecordID == nil || *e.PayrollRecordID != recordID) {
			return ledger.ErrEntryApplied
		}
		e.Applied = true
		e.PayrollRecordID = &recordID
		l.s.entries[id] = e
	}
	return nil
}

type memEmployees struct{ list []employee.Employee }

func (m memEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range m.list {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m memEmployees) ListActive(_ context.Context, scope employee.Scope) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range m.list {
		if scope.IsAll() || containsID(scope.EmployeeIDs, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

type memAttendance struct {
	attendance.AttendanceRepository
	totals []attendance.Totals
}

func (m memAttendance) SumByEmployees(context.Context, []string, time.Time, time.Time) ([]attendance.Totals, error) {
	return m.totals, nil
}

type nopNotifier struct{ count int }

func (n *nopNotifier) Notify(context.Context, notification.Event) { n.count++ }
func (n *nopNotifier) Stop()                                      {}

type fixture struct {
	svc      payroll.PayrollService
	store    *store
	ledger   memLedger
	notifier *nopNotifier
}

func newFixture(t *testing.T, employees []employee.Employee, totals []attendance.Totals) fixture {
	t.Helper()
	s := newStore()
	l := memLedger{s: s}
	n := &nopNotifier{}
	svc, err := NewPayrollService(
		snapshotTx{s: s},
		memPayrollRepo{s: s},
		memEmployees{list: employees},
		memAttendance{totals: totals},
		l,
		n,
		payroll.Policy{TaxRate: decimal.RequireFromString("0.10"), StandardMonthlyMinutes: 9600},
		time.UTC,
		nil,
	)
	require.NoError(t, err)
	return fixture{svc: svc, store: s, ledger: l, notifier: n}
}

func generateReq() payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{PeriodMonth: 3, PeriodYear: 2025, GeneratedBy: actorID}
}

func TestGenerate_ComputesBreakdownAndAppliesEntries(t *testing.T) {
	f := newFixture(t,
		[]employee.Employee{{ID: empA, FullName: "Ayu", EmployeeCode: "E-001", BaseSalary: 3000}},
		[]attendance.Totals{{EmployeeID: empA, WorkDays: 20, TotalOvertimeMinutes: 600, TotalLateMinutes: 15}},
	)
	f.ledger.add(ledger.Entry{ID: "e-bonus", EmployeeID: empA, Type: ledger.EntryTypeBonus, Amount: 200, PeriodMonth: 3, PeriodYear: 2025})
	f.ledger.add(ledger.Entry{ID: "e-deduct", EmployeeID: empA, Type: ledger.EntryTypeDeduction, Amount: 50, PeriodMonth: 3, PeriodYear: 2025})
	f.ledger.add(ledger.Entry{ID: "e-april", EmployeeID: empA, Type: ledger.EntryTypeBonus, Amount: 999, PeriodMonth: 4, PeriodYear: 2025})

	records, err := f.svc.Generate(context.Background(), generateReq())
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, int64(3000), r.BaseSalary)
	assert.Equal(t, int64(188), r.OvertimePay)
	assert.Equal(t, int64(200), r.Bonuses)
	assert.Equal(t, int64(-50), r.Adjustments)
	assert.Equal(t, int64(3338), r.GrossSalary)
	assert.Equal(t, int64(334), r.TaxDeduction)
	assert.Equal(t, int64(3004), r.NetSalary)
	assert.Equal(t, payroll.PayrollStatusPending, r.Status)
	assert.Equal(t, 20, r.TotalWorkDays)
	assert.ElementsMatch(t, []string{"e-bonus", "e-deduct"}, r.AppliedEntryIDs)

	assert.True(t, f.store.entries["e-bonus"].Applied)
	assert.True(t, f.store.entries["e-deduct"].Applied)
	assert.Equal(t, r.ID, *f.store.entries["e-bonus"].PayrollRecordID)
	assert.False(t, f.store.entries["e-april"].Applied)
	assert.Equal(t, 1, f.notifier.count)
}

func TestGenerate_SecondRunIsRejected(t *testing.T) {
	f := newFixture(t, []employee.Employee{{ID: empA, BaseSalary: 3000}}, nil)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, generateReq())
	require.NoError(t, err)

	_, err = f.svc.Generate(ctx, generateReq())
	var already *apperror.AlreadyGeneratedError
	require.True(t, errors.As(err, &already))
	assert.Equal(t, 1, already.ExistingRecords)
	assert.Len(t, f.store.records, 1)
}

func TestGenerate_FailureWritesNothing(t *testing.T) {
	f := newFixture(t,
		[]employee.Employee{{ID: empA, BaseSalary: 3000}, {ID: empB, BaseSalary: 0}},
		nil,
	)
	f.ledger.add(ledger.Entry{ID: "e-1", EmployeeID: empA, Type: ledger.EntryTypeBonus, Amount: 10, PeriodMonth: 3, PeriodYear: 2025})

	_, err := f.svc.Generate(context.Background(), generateReq())
	assert.ErrorIs(t, err, payroll.ErrEmployeeHasNoBaseSalary)
	assert.Empty(t, f.store.records)
	assert.False(t, f.store.entries["e-1"].Applied)
	assert.Equal(t, 0, f.notifier.count)
}

func TestGenerate_NoEmployees(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.svc.Generate(context.Background(), generateReq())
	assert.ErrorIs(t, err, payroll.ErrNoEmployeesInScope)
}

func TestGenerate_NegativeGrossHasNoTax(t *testing.T) {
	f := newFixture(t, []employee.Employee{{ID: empA, BaseSalary: 1000}}, nil)
	f.ledger.add(ledger.Entry{ID: "e-1", EmployeeID: empA, Type: ledger.EntryTypeDeduction, Amount: 1500, PeriodMonth: 3, PeriodYear: 2025})

	records, err := f.svc.Generate(context.Background(), generateReq())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(-500), records[0].GrossSalary)
	assert.Equal(t, int64(0), records[0].TaxDeduction)
	assert.Equal(t, int64(-500), records[0].NetSalary)
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t, []employee.Employee{{ID: empA, BaseSalary: 3000}}, nil)
	ctx := context.Background()

	records, err := f.svc.Generate(ctx, generateReq())
	require.NoError(t, err)
	id := records[0].ID

	_, err = f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentMethod: "bank_transfer", PaidBy: actorID})
	var invalid *apperror.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "pending", invalid.From)

	approved, err := f.svc.Approve(ctx, payroll.ApprovePayrollRequest{ID: id, ApprovedBy: actorID})
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, actorID, *approved.ApprovedBy)

	_, err = f.svc.Approve(ctx, payroll.ApprovePayrollRequest{ID: id, ApprovedBy: actorID})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	ref := "TRX-778"
	paid, err := f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentMethod: "bank_transfer", PaymentReference: &ref, PaidBy: actorID})
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "TRX-778", *paid.PaymentReference)

	_, err = f.svc.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentMethod: "cash", PaidBy: actorID})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestLifecycle_UnknownRecord(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.svc.Approve(context.Background(), payroll.ApprovePayrollRequest{
		ID:         "bbbbbbbb-0000-4000-8000-000000000000",
		ApprovedBy: actorID,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNewPayrollService_RejectsBadPolicy(t *testing.T) {
	s := newStore()
	_, err := NewPayrollService(snapshotTx{s: s}, memPayrollRepo{s: s}, memEmployees{}, memAttendance{}, memLedger{s: s}, &nopNotifier{},
		payroll.Policy{TaxRate: decimal.NewFromInt(1), StandardMonthlyMinutes: 9600}, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrConfig)
}
