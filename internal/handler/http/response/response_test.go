package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 20, 41)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(41), resp.Meta.TotalItems)

	rec = httptest.NewRecorder()
	Paginated(rec, []string{}, 1, 20, 0)
	resp = decode(t, rec)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "minutes", Message: "must be greater than 0"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperror.NotFound("employee", "e1")), http.StatusNotFound, "NOT_FOUND"},
		{"second check-in", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "ATTENDANCE_CONFLICT"},
		{"check-out without check-in", attendance.ErrNotCheckedIn, http.StatusBadRequest, "BAD_REQUEST"},
		{"ledger mismatch", fmt.Errorf("%w: 1 of 2", payroll.ErrLedgerMismatch), http.StatusConflict, "LEDGER_MISMATCH"},
		{"version conflict", &apperror.ConflictError{Entity: "attendance outcome", ID: "x", ExpectedVersion: 1, ActualVersion: 2}, http.StatusConflict, "VERSION_CONFLICT"},
		{"inactive employee", fmt.Errorf("%w: e1", employee.ErrEmployeeInactive), http.StatusUnprocessableEntity, "EMPLOYEE_INACTIVE"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "reason", Message: "is required"}})

	resp := decode(t, rec)
	assert.Equal(t, map[string]string{"reason": "is required"}, resp.Error.Details)
}
