package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Records
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	MarkPayrollPaid(w http.ResponseWriter, r *http.Request)

	// Summary
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PAYROLL RECORDS ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.GeneratedBy = getUserIDFromContext(r)

	records, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", payroll.ToRecordResponses(records))
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	record, err := h.payrollService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.ToRecordResponse(record))
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		PeriodMonth: getOptionalIntQueryParam(r, "period_month"),
		PeriodYear:  getOptionalIntQueryParam(r, "period_year"),
		Status:      getOptionalStringQueryParam(r, "status"),
		EmployeeID:  getOptionalStringQueryParam(r, "employee_id"),
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "limit", 20),
	}
	filter.Normalize()

	records, total, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, payroll.ToRecordResponses(records), filter.Page, filter.Limit, total)
}

// ========== LIFECYCLE ==========

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	req := payroll.ApprovePayrollRequest{
		ID:         chi.URLParam(r, "id"),
		ApprovedBy: getUserIDFromContext(r),
	}

	record, err := h.payrollService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", payroll.ToRecordResponse(record))
}

func (h *payrollHandlerImpl) MarkPayrollPaid(w http.ResponseWriter, r *http.Request) {
	var req payroll.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.PaidBy = getUserIDFromContext(r)

	record, err := h.payrollService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", payroll.ToRecordResponse(record))
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	month := getIntQueryParam(r, "period_month", 0)
	year := getIntQueryParam(r, "period_year", 0)

	summary, err := h.payrollService.GetPeriodSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.ToSummaryResponse(summary))
}
