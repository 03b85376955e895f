package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type ScheduleHandler interface {
	GetExpectedSchedule(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	resolver schedule.ScheduleResolver
}

func NewScheduleHandler(resolver schedule.ScheduleResolver) ScheduleHandler {
	return &scheduleHandlerImpl{
		resolver: resolver,
	}
}

// GetExpectedSchedule resolves ?employee_id=&date=YYYY-MM-DD to the shift
// the employee is expected to work that day.
func (h *scheduleHandlerImpl) GetExpectedSchedule(w http.ResponseWriter, r *http.Request) {
	req := schedule.ResolveRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Date:       r.URL.Query().Get("date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	date, err := parseDateParam("date", req.Date, h.resolver.Location())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	expected, err := h.resolver.Resolve(r.Context(), req.EmployeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, schedule.ToExpectedScheduleResponse(expected))
}
