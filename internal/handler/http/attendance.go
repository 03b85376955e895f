package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Command(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	AddLatency(w http.ResponseWriter, r *http.Request)
	AddEarlyDeparture(w http.ResponseWriter, r *http.Request)
	AddBreak(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	LeaveOverride(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Command accepts the tagged envelope {"type": ..., "payload": {...}}.
func (h *attendanceHandlerImpl) Command(w http.ResponseWriter, r *http.Request) {
	var req attendance.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	cmd, err := attendance.DecodeCommand(req, h.attendanceService.Location(), getUserIDFromContext(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.execute(w, r, cmd, "Attendance updated")
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = getUserIDFromContext(r)

	cmd, err := req.ToCommand(h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.execute(w, r, cmd, "Check in successful")
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = getUserIDFromContext(r)

	cmd, err := req.ToCommand(h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.execute(w, r, cmd, "Check out successful")
}

// MarkAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAbsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = getUserIDFromContext(r)

	cmd, err := req.ToCommand(h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.execute(w, r, cmd, "Employee marked absent")
}

func (h *attendanceHandlerImpl) AddLatency(w http.ResponseWriter, r *http.Request) {
	h.correction(w, r, attendance.KindAddLatency)
}

func (h *attendanceHandlerImpl) AddEarlyDeparture(w http.ResponseWriter, r *http.Request) {
	h.correction(w, r, attendance.KindAddEarlyDeparture)
}

func (h *attendanceHandlerImpl) AddBreak(w http.ResponseWriter, r *http.Request) {
	h.correction(w, r, attendance.KindAddBreak)
}

func (h *attendanceHandlerImpl) correction(w http.ResponseWriter, r *http.Request, kind attendance.CommandKind) {
	var req attendance.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Kind = kind
	req.ActorID = getUserIDFromContext(r)

	cmd, err := req.ToCommand(h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.execute(w, r, cmd, "Attendance corrected")
}

func (h *attendanceHandlerImpl) execute(w http.ResponseWriter, r *http.Request, cmd attendance.Command, message string) {
	outcome, err := h.attendanceService.Execute(r.Context(), cmd)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, attendance.ToOutcomeResponse(outcome))
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := attendance.ListOutcomesRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}

	outcomes, err := h.attendanceService.ListOutcomes(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]attendance.OutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		result = append(result, attendance.ToOutcomeResponse(o))
	}
	response.Success(w, result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", chi.URLParam(r, "date"), h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	outcome, err := h.attendanceService.GetOutcome(r.Context(), chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToOutcomeResponse(outcome))
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", chi.URLParam(r, "date"), h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.DeleteOutcome(r.Context(), chi.URLParam(r, "employeeID"), date); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// LeaveOverride implements AttendanceHandler.
func (h *attendanceHandlerImpl) LeaveOverride(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", chi.URLParam(r, "date"), h.attendanceService.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckLeaveOverride(r.Context(), chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToLeaveOverrideResponse(result))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req := attendance.SummaryRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Month:      getIntQueryParam(r, "month", 0),
		Year:       getIntQueryParam(r, "year", 0),
	}

	summary, err := h.attendanceService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToSummaryResponse(summary))
}
