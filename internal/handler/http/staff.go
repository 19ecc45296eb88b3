package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lengolf/lengolf-backend-go/internal/domain/staff"
	"github.com/lengolf/lengolf-backend-go/internal/handler/http/response"
)

type StaffHandler interface {
	GetStaff(w http.ResponseWriter, r *http.Request)
	ListActiveStaff(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.StaffService
}

func NewStaffHandler(staffService staff.StaffService) StaffHandler {
	return &staffHandlerImpl{staffService: staffService}
}

func (h *staffHandlerImpl) GetStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.staffService.GetStaff(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *staffHandlerImpl) ListActiveStaff(w http.ResponseWriter, r *http.Request) {
	result, err := h.staffService.ListActiveStaff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
