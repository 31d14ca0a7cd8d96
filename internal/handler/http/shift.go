package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	GetMyStatus(w http.ResponseWriter, r *http.Request)
	ListMyShifts(w http.ResponseWriter, r *http.Request)

	// Admin
	UpdateShift(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
	location     *time.Location
	now          func() time.Time
}

// NewShiftHandler defaults missing periods to the current month in location.
func NewShiftHandler(shiftService shift.ShiftService, location *time.Location) ShiftHandler {
	return &shiftHandlerImpl{shiftService: shiftService, location: location, now: time.Now}
}

func (h *shiftHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.DriverID = principal.DriverID

	result, err := h.shiftService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", result)
}

func (h *shiftHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.DriverID = principal.DriverID

	result, err := h.shiftService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", result)
}

func (h *shiftHandlerImpl) GetMyStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.GetDriverStatus(r.Context(), principal.DriverID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListMyShifts(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year, month, err := periodFromQuery(r, h.now().In(h.location))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.ListDriverShifts(r.Context(), principal.DriverID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ADMIN ==========

func (h *shiftHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := uuidParam("id", id); err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id
	req.AdminID = principal.UserID

	result, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated", result)
}
