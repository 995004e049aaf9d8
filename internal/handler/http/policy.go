package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PolicyHandler interface {
	GetPolicies(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	policyService policy.Service
}

func NewPolicyHandler(policyService policy.Service) PolicyHandler {
	return &policyHandlerImpl{
		policyService: policyService,
	}
}

// GetPolicies handles GET /policies
func (h *policyHandlerImpl) GetPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policyService.GetPolicies(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policies)
}

// UpdatePolicy handles PUT /policies/{staff_type}
func (h *policyHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req policy.UpdatePolicyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePolicy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.StaffType = policy.StaffType(chi.URLParam(r, "staff_type"))

	updated, err := h.policyService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance policy updated successfully", updated)
}

// ListHolidays handles GET /holidays with an optional ?staff_type=
func (h *policyHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	var staffType *policy.StaffType
	if v := r.URL.Query().Get("staff_type"); v != "" {
		st := policy.StaffType(v)
		staffType = &st
	}

	holidays, err := h.policyService.ListHolidays(r.Context(), staffType)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

// CreateHoliday handles POST /holidays
func (h *policyHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req policy.CreateHolidayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holiday, err := h.policyService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", holiday)
}

// DeleteHoliday handles DELETE /holidays/{staff_type}/{date}
func (h *policyHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, ok := validator.IsValidDate(chi.URLParam(r, "date"))
	if !ok {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}})
		return
	}
	staffType := policy.StaffType(chi.URLParam(r, "staff_type"))

	if err := h.policyService.DeleteHoliday(r.Context(), staffType, date); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}
