package handler

import (
	"encoding/json"
	"net/http"

	"clinic-records/internal/delivery/dto"
	"clinic-records/internal/usecase"
	"clinic-records/pkg/response"
	"clinic-records/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := h.staffUsecase.CreateStaff(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrLicenseRequired, usecase.ErrInvalidLicenseDate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to add staff member", err)
		}
		return
	}

	response.Success(w, http.StatusCreated, "Staff member added successfully", created)
}

func (h *StaffHandler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffUsecase.GetAllStaff(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get staff", err)
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	staff, err := h.staffUsecase.GetStaff(r.Context(), staffID)
	if err != nil {
		switch err {
		case usecase.ErrStaffNotFound:
			response.NotFound(w, "Staff member not found")
		default:
			response.InternalServerError(w, "Failed to get staff member", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Staff member retrieved successfully", staff)
}

func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req dto.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.UpdateStaff(r.Context(), staffID, &req)
	if err != nil {
		switch err {
		case usecase.ErrStaffNotFound:
			response.NotFound(w, "Staff member not found")
		case usecase.ErrLicenseRequired, usecase.ErrInvalidLicenseDate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update staff member", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Staff member updated successfully", staff)
}

func (h *StaffHandler) UpdateStaffStatus(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req dto.StaffStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.UpdateStaffStatus(r.Context(), staffID, &req)
	if err != nil {
		switch err {
		case usecase.ErrStaffNotFound:
			response.NotFound(w, "Staff member not found")
		default:
			response.InternalServerError(w, "Failed to update staff status", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Staff status updated successfully", staff)
}

func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staffID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.staffUsecase.DeleteStaff(r.Context(), staffID); err != nil {
		switch err {
		case usecase.ErrStaffNotFound:
			response.NotFound(w, "Staff member not found")
		default:
			response.InternalServerError(w, "Failed to delete staff member", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Staff member deleted successfully", nil)
}

func (h *StaffHandler) CountStaff(w http.ResponseWriter, r *http.Request) {
	count, err := h.staffUsecase.CountStaff(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to count staff", err)
		return
	}

	response.Success(w, http.StatusOK, "Staff count retrieved successfully", count)
}

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
