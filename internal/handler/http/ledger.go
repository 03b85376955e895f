package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LedgerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
	}
}

func (h *ledgerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req ledger.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CreatedBy = getUserIDFromContext(r)

	entry, err := h.ledgerService.AddEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Ledger entry created", ledger.ToEntryResponse(entry))
}

func (h *ledgerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := ledger.ListEntriesRequest{
		EmployeeID:  r.URL.Query().Get("employee_id"),
		PeriodMonth: getIntQueryParam(r, "month", 0),
		PeriodYear:  getIntQueryParam(r, "year", 0),
		Type:        getOptionalStringQueryParam(r, "type"),
	}

	entries, err := h.ledgerService.ListEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ledger.ToEntryResponses(entries))
}

func (h *ledgerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	entry, err := h.ledgerService.GetEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ledger.ToEntryResponse(entry))
}

func (h *ledgerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	var req ledger.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id
	req.UpdatedBy = getUserIDFromContext(r)

	entry, err := h.ledgerService.UpdateEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger entry updated", ledger.ToEntryResponse(entry))
}

func (h *ledgerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	if err := h.ledgerService.DeleteEntry(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger entry deleted", nil)
}
