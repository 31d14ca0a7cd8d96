package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Config
	GetCurrentConfig(w http.ResponseWriter, r *http.Request)
	CreateConfig(w http.ResponseWriter, r *http.Request)
	ListConfigHistory(w http.ResponseWriter, r *http.Request)

	// Calculation
	GetDriverPayroll(w http.ResponseWriter, r *http.Request)
	GetAllDriversPayroll(w http.ResponseWriter, r *http.Request)
	GetMyPayroll(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	location       *time.Location
	now            func() time.Time
}

func NewPayrollHandler(payrollService payroll.PayrollService, location *time.Location) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, location: location, now: time.Now}
}

// ========== CONFIG ==========

func (h *payrollHandlerImpl) GetCurrentConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetCurrentConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateConfig(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CreatedBy = principal.UserID

	result, err := h.payrollService.CreateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll configuration created", result)
}

func (h *payrollHandlerImpl) ListConfigHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListConfigHistory(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CALCULATION ==========

func (h *payrollHandlerImpl) GetDriverPayroll(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	if err := uuidParam("driver_id", driverID); err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeDriverPayroll(w, r, driverID)
}

func (h *payrollHandlerImpl) GetMyPayroll(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.writeDriverPayroll(w, r, principal.DriverID)
}

func (h *payrollHandlerImpl) writeDriverPayroll(w http.ResponseWriter, r *http.Request, driverID string) {
	year, month, err := periodFromQuery(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.CalculateDriverPayroll(r.Context(), driverID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetAllDriversPayroll(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.CalculateAllDriversPayroll(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
