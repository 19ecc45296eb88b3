package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lengolf/lengolf-backend-go/internal/domain/payroll"
	"github.com/lengolf/lengolf-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Monthly computation
	GetMonthlyPayroll(w http.ResponseWriter, r *http.Request)
	GetReviewEntries(w http.ResponseWriter, r *http.Request)

	// Compensation settings
	ListCompensationSettings(w http.ResponseWriter, r *http.Request)
	CreateCompensationSetting(w http.ResponseWriter, r *http.Request)

	// Holiday calendar
	ListPublicHolidays(w http.ResponseWriter, r *http.Request)
	CreatePublicHoliday(w http.ResponseWriter, r *http.Request)
	UpdatePublicHoliday(w http.ResponseWriter, r *http.Request)

	// Process-wide settings
	GetDailyAllowance(w http.ResponseWriter, r *http.Request)
	UpdateDailyAllowance(w http.ResponseWriter, r *http.Request)
	GetServiceCharge(w http.ResponseWriter, r *http.Request)
	UpsertServiceCharge(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// periodFromURL parses the {year}/{month} path segments shared by the
// period-scoped routes.
func periodFromURL(r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

// ========== MONTHLY COMPUTATION ==========

func (h *payrollHandlerImpl) GetMonthlyPayroll(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodFromURL(r)
	if !ok {
		response.BadRequest(w, "Year and month must be numeric", nil)
		return
	}

	result, err := h.payrollService.ComputeMonthlyPayroll(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetReviewEntries(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodFromURL(r)
	if !ok {
		response.BadRequest(w, "Year and month must be numeric", nil)
		return
	}

	result, err := h.payrollService.ComputeReviewEntries(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== COMPENSATION SETTINGS ==========

func (h *payrollHandlerImpl) ListCompensationSettings(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "id")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.payrollService.ListCompensationSettings(r.Context(), staffID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateCompensationSetting(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "id")
	if staffID == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	var req payroll.CreateCompensationSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.StaffID = staffID

	result, err := h.payrollService.CreateCompensationSetting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Compensation setting created", result)
}

// ========== HOLIDAY CALENDAR ==========

func (h *payrollHandlerImpl) ListPublicHolidays(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" || monthStr == "" {
		response.BadRequest(w, "year and month are required", nil)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		response.BadRequest(w, "Invalid month", nil)
		return
	}

	result, err := h.payrollService.ListPublicHolidays(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreatePublicHoliday(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePublicHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreatePublicHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Public holiday created", result)
}

func (h *payrollHandlerImpl) UpdatePublicHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Holiday ID is required", nil)
		return
	}

	var req payroll.UpdatePublicHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	if err := h.payrollService.UpdatePublicHoliday(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}

// ========== PROCESS-WIDE SETTINGS ==========

func (h *payrollHandlerImpl) GetDailyAllowance(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetDailyAllowance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateDailyAllowance(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateDailyAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateDailyAllowance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetServiceCharge(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodFromURL(r)
	if !ok {
		response.BadRequest(w, "Year and month must be numeric", nil)
		return
	}

	result, err := h.payrollService.GetServiceCharge(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpsertServiceCharge(w http.ResponseWriter, r *http.Request) {
	year, month, ok := periodFromURL(r)
	if !ok {
		response.BadRequest(w, "Year and month must be numeric", nil)
		return
	}

	var req payroll.UpsertServiceChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Year = year
	req.Month = month

	result, err := h.payrollService.UpsertServiceCharge(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
