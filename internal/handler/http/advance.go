package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AdvanceHandler interface {
	// Driver
	GetMyEligibility(w http.ResponseWriter, r *http.Request)
	RequestAdvance(w http.ResponseWriter, r *http.Request)
	ListMyAdvances(w http.ResponseWriter, r *http.Request)

	// Admin
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	GetConfig(w http.ResponseWriter, r *http.Request)
	UpdateConfig(w http.ResponseWriter, r *http.Request)
}

type advanceHandlerImpl struct {
	advanceService advance.AdvanceService
}

func NewAdvanceHandler(advanceService advance.AdvanceService) AdvanceHandler {
	return &advanceHandlerImpl{advanceService: advanceService}
}

// ========== DRIVER ==========

func (h *advanceHandlerImpl) GetMyEligibility(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var amount *float64
	if v := r.URL.Query().Get("amount"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			response.HandleError(w, validator.ValidationErrors{{Field: "amount", Message: "must be a number"}})
			return
		}
		amount = &parsed
	}

	result, err := h.advanceService.CalculateEligibility(r.Context(), principal.DriverID, amount)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) RequestAdvance(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.RequestAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.DriverID = principal.DriverID

	result, err := h.advanceService.RequestAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance requested", result)
}

func (h *advanceHandlerImpl) ListMyAdvances(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.advanceService.ListDriverAdvances(r.Context(), principal.DriverID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ADMIN ==========

func (h *advanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.ApproveAdvanceRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.AdminID = principal.UserID

	result, err := h.advanceService.ApproveAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance approved", result)
}

func (h *advanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.RejectAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.AdminID = principal.UserID

	result, err := h.advanceService.RejectAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance rejected", result)
}

func (h *advanceHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.advanceService.MarkPaid(r.Context(), id, principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance marked as paid", result)
}

func (h *advanceHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.SettleAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.AdminID = principal.UserID

	result, err := h.advanceService.SettleAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance settled", result)
}

func (h *advanceHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.advanceService.GetConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *advanceHandlerImpl) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req advance.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UpdatedBy = principal.UserID

	result, err := h.advanceService.UpdateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance configuration updated", result)
}

// decodeOptional accepts an empty body as the zero request.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
