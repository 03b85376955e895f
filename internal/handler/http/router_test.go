package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeAttendanceService struct {
	attendance.AttendanceService
	executed []attendance.Command
	err      error
}

func (f *fakeAttendanceService) Location() *time.Location { return time.UTC }

func (f *fakeAttendanceService) Execute(_ context.Context, cmd attendance.Command) (attendance.Outcome, error) {
	if f.err != nil {
		return attendance.Outcome{}, f.err
	}
	f.executed = append(f.executed, cmd)
	t := cmd.Target()
	actor := t.ActorID
	return attendance.Outcome{
		ID:         uuid.NewString(),
		EmployeeID: t.EmployeeID,
		Date:       t.Date,
		Status:     attendance.StatusPresent,
		Version:    1,
		UpdatedBy:  &actor,
	}, nil
}

type fakePayrollService struct {
	payroll.PayrollService
	generateErr error
	generated   []payroll.GeneratePayrollRequest
}

func (f *fakePayrollService) Generate(_ context.Context, req payroll.GeneratePayrollRequest) ([]payroll.PayrollRecord, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	f.generated = append(f.generated, req)
	return []payroll.PayrollRecord{{ID: uuid.NewString(), PeriodMonth: req.PeriodMonth, PeriodYear: req.PeriodYear, Status: payroll.PayrollStatusPending}}, nil
}

func (f *fakePayrollService) Approve(_ context.Context, req payroll.ApprovePayrollRequest) (payroll.PayrollRecord, error) {
	return payroll.PayrollRecord{}, &apperror.InvalidTransitionError{RecordID: req.ID, From: "paid", Action: string(payroll.ActionApprove)}
}

type fakeLedgerService struct {
	ledger.LedgerService
}

func (fakeLedgerService) UpdateEntry(_ context.Context, req ledger.UpdateEntryRequest) (ledger.Entry, error) {
	return ledger.Entry{}, &apperror.ImmutableEntryError{EntryID: req.ID}
}

type fakeResolver struct {
	err error
}

func (f fakeResolver) Location() *time.Location { return time.UTC }

func (f fakeResolver) Resolve(_ context.Context, employeeID string, date time.Time) (schedule.Expected, error) {
	if f.err != nil {
		return schedule.Expected{}, f.err
	}
	return schedule.Expected{EmployeeID: employeeID, Date: date, Source: schedule.SourceDefault}, nil
}

// ===== HELPERS =====

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	attendance *fakeAttendanceService
	payroll    *fakePayrollService
}

func newTestServer(t *testing.T, resolver fakeResolver) *testServer {
	t.Helper()
	jwtSvc := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour)
	att := &fakeAttendanceService{}
	pay := &fakePayrollService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(logger, RouterOptions{}, jwtSvc, Handlers{
		Attendance: NewAttendanceHandler(att),
		Ledger:     NewLedgerHandler(fakeLedgerService{}),
		Payroll:    NewPayrollHandler(pay),
		Schedule:   NewScheduleHandler(resolver),
	})
	return &testServer{router: router, jwt: jwtSvc, attendance: att, payroll: pay}
}

func (s *testServer) do(t *testing.T, method, path string, role user.Role, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := s.jwt.GenerateAccessToken(user.Actor{UserID: userID, Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ===== TESTS =====

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t, fakeResolver{})

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/generate", "", "", map[string]int{"period_month": 3})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionDenied(t *testing.T) {
	s := newTestServer(t, fakeResolver{})

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/generate", user.RoleEmployee, uuid.NewString(),
		map[string]int{"period_month": 3, "period_year": 2025})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, s.payroll.generated)

	rec = s.do(t, http.MethodPost, "/api/v1/payroll/records/"+uuid.NewString()+"/approve", user.RoleManager, uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_GenerateStampsActor(t *testing.T) {
	s := newTestServer(t, fakeResolver{})
	actorID := uuid.NewString()

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/generate", user.RoleManager, actorID,
		map[string]int{"period_month": 3, "period_year": 2025})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, s.payroll.generated, 1)
	assert.Equal(t, actorID, s.payroll.generated[0].GeneratedBy)
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"already generated", &apperror.AlreadyGeneratedError{Month: 3, Year: 2025}, http.StatusConflict, "ALREADY_GENERATED"},
		{"config", &apperror.ConfigError{Key: "TAX_RATE", Reason: "bad"}, http.StatusInternalServerError, "CONFIG_ERROR"},
		{"empty scope", payroll.ErrNoEmployeesInScope, http.StatusBadRequest, "BAD_REQUEST"},
		{"missing salary", payroll.ErrEmployeeHasNoBaseSalary, http.StatusUnprocessableEntity, "MISSING_BASE_SALARY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, fakeResolver{})
			s.payroll.generateErr = tt.err

			rec := s.do(t, http.MethodPost, "/api/v1/payroll/generate", user.RoleOwner, uuid.NewString(),
				map[string]int{"period_month": 3, "period_year": 2025})
			assert.Equal(t, tt.wantCode, rec.Code)

			resp := decodeBody(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestRouter_InvalidTransitionAndImmutableEntry(t *testing.T) {
	s := newTestServer(t, fakeResolver{})

	rec := s.do(t, http.MethodPost, "/api/v1/payroll/records/"+uuid.NewString()+"/approve", user.RoleOwner, uuid.NewString(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeBody(t, rec).Error.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/ledger/entries/"+uuid.NewString(), user.RoleManager, uuid.NewString(),
		map[string]interface{}{"amount": 10})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "IMMUTABLE_ENTRY", decodeBody(t, rec).Error.Code)
}

func TestRouter_CheckIn(t *testing.T) {
	s := newTestServer(t, fakeResolver{})
	actorID := uuid.NewString()
	employeeID := uuid.NewString()

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", user.RoleEmployee, actorID, map[string]string{
		"employee_id": employeeID,
		"observed_at": "2025-03-10T09:15:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, s.attendance.executed, 1)
	cmd, ok := s.attendance.executed[0].(attendance.CheckIn)
	require.True(t, ok)
	assert.Equal(t, employeeID, cmd.At.EmployeeID)
	assert.Equal(t, actorID, cmd.At.ActorID)
	assert.Equal(t, "2025-03-10", cmd.At.Date.Format("2006-01-02"))
}

func TestRouter_CheckInValidation(t *testing.T) {
	s := newTestServer(t, fakeResolver{})

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", user.RoleEmployee, uuid.NewString(), map[string]string{
		"employee_id": "not-a-uuid",
		"observed_at": "yesterday",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "employee_id")
	assert.Contains(t, resp.Error.Details, "observed_at")
	assert.Empty(t, s.attendance.executed)
}

func TestRouter_CommandEnvelope(t *testing.T) {
	s := newTestServer(t, fakeResolver{})

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/commands", user.RoleManager, uuid.NewString(), map[string]interface{}{
		"type": "add_break",
		"payload": map[string]interface{}{
			"employee_id": uuid.NewString(),
			"date":        "2025-03-10",
			"minutes":     30,
			"reason":      "lunch",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, s.attendance.executed, 1)
	assert.Equal(t, attendance.KindAddBreak, s.attendance.executed[0].Kind())

	// employees may record their own attendance but not correct it
	rec = s.do(t, http.MethodPost, "/api/v1/attendance/commands", user.RoleEmployee, uuid.NewString(), map[string]interface{}{
		"type": "mark_absent",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_VersionConflict(t *testing.T) {
	s := newTestServer(t, fakeResolver{})
	s.attendance.err = &apperror.ConflictError{Entity: "attendance", ID: "x", ExpectedVersion: 1, ActualVersion: 2}

	rec := s.do(t, http.MethodPost, "/api/v1/attendance/corrections/latency", user.RoleManager, uuid.NewString(), map[string]interface{}{
		"employee_id":      uuid.NewString(),
		"date":             "2025-03-10",
		"minutes":          5,
		"reason":           "gate log",
		"expected_version": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "VERSION_CONFLICT", decodeBody(t, rec).Error.Code)
}

func TestRouter_ExpectedSchedule(t *testing.T) {
	s := newTestServer(t, fakeResolver{})
	employeeID := uuid.NewString()

	rec := s.do(t, http.MethodGet, "/api/v1/schedules/expected?employee_id="+employeeID+"&date=2025-03-10", user.RoleEmployee, uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s = newTestServer(t, fakeResolver{err: &apperror.ConfigError{Key: "default_shift", Reason: "end before start"}})
	rec = s.do(t, http.MethodGet, "/api/v1/schedules/expected?employee_id="+employeeID+"&date=2025-03-10", user.RoleEmployee, uuid.NewString(), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CONFIG_ERROR", decodeBody(t, rec).Error.Code)
}
